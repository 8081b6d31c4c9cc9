package service

import (
	"context"

	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/guestcart"
	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/metrics"
	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/repository"

	"gorm.io/gorm"
)

// CartScope selects whose cart an operation works on: the persisted cart of
// UserID when it is set, the guest store otherwise.
type CartScope struct {
	UserID uint
	Guest  guestcart.Store
}

func (s CartScope) authenticated() bool {
	return s.UserID != 0
}

// CartLine is one aggregated variant of a cart.
type CartLine struct {
	Key          string `json:"key"`
	PaintingID   uint   `json:"painting_id"`
	Title        string `json:"title"`
	ImageURL     string `json:"image_url,omitempty"`
	Kind         string `json:"kind"`
	WidthCm      *int   `json:"width_cm,omitempty"`
	HeightCm     *int   `json:"height_cm,omitempty"`
	UnitPriceMAD int64  `json:"unit_price_mad"`
	Quantity     int    `json:"quantity"`
	LineTotalMAD int64  `json:"line_total_mad"`
}

// CartSummary is the priced content of a cart.
type CartSummary struct {
	Items []CartLine `json:"items"`
	Totals
}

// AddToCartInput adds a variant. Quantity 0 means 1.
type AddToCartInput struct {
	PaintingID uint `json:"painting_id" validate:"required"`
	WidthCm    *int `json:"width_cm" validate:"omitempty,gt=0,lte=1000"`
	HeightCm   *int `json:"height_cm" validate:"omitempty,gt=0,lte=1000"`
	Quantity   int  `json:"quantity" validate:"gte=0,lte=20"`
}

// CartService manages persisted and guest carts.
type CartService struct {
	db           *gorm.DB
	cartRepo     repository.CartRepository
	paintingRepo repository.PaintingRepository
	userRepo     repository.UserRepository
	retry        models.RetryPolicy
	metrics      *metrics.Business
}

// NewCartService creates the cart service.
func NewCartService(db *gorm.DB, cartRepo repository.CartRepository, paintingRepo repository.PaintingRepository, userRepo repository.UserRepository, retry models.RetryPolicy) *CartService {
	return &CartService{
		db:           db,
		cartRepo:     cartRepo,
		paintingRepo: paintingRepo,
		userRepo:     userRepo,
		retry:        retry,
	}
}

// SetMetrics attaches business counters.
func (s *CartService) SetMetrics(m *metrics.Business) {
	s.metrics = m
}

// cartEntry is a raw cart row before aggregation. Persisted rows carry their
// price snapshot; guest lines are priced from the catalog.
type cartEntry struct {
	paintingID uint
	widthCm    *int
	heightCm   *int
	quantity   int
	unitPrice  int64
	priced     bool
}

// GetCart prices the cart of scope, applying discountPercent (0 for none).
func (s *CartService) GetCart(ctx context.Context, scope CartScope, discountPercent int) (*CartSummary, error) {
	var summary *CartSummary
	err := s.retry.Do(ctx, func() error {
		entries, err := s.loadEntries(scope)
		if err != nil {
			return err
		}
		summary, err = s.summarize(entries, discountPercent)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *CartService) loadEntries(scope CartScope) ([]cartEntry, error) {
	if scope.authenticated() {
		items, err := s.cartRepo.ListByUser(scope.UserID)
		if err != nil {
			return nil, err
		}
		entries := make([]cartEntry, 0, len(items))
		for _, item := range items {
			entries = append(entries, cartEntry{
				paintingID: item.PaintingID,
				widthCm:    dimensionPtr(item.WidthCm),
				heightCm:   dimensionPtr(item.HeightCm),
				quantity:   item.Quantity,
				unitPrice:  item.UnitPriceMAD,
				priced:     true,
			})
		}
		return entries, nil
	}
	if scope.Guest == nil {
		return nil, nil
	}
	lines := scope.Guest.Lines()
	entries := make([]cartEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, cartEntry{
			paintingID: line.PaintingID,
			widthCm:    line.WidthCm,
			heightCm:   line.HeightCm,
			quantity:   line.Quantity,
		})
	}
	return entries, nil
}

func (s *CartService) summarize(entries []cartEntry, discountPercent int) (*CartSummary, error) {
	summary := &CartSummary{Items: []CartLine{}}
	if len(entries) == 0 {
		summary.Totals = ComputeTotals(0, discountPercent)
		return summary, nil
	}

	ids := uniquePaintingIDs(entries)
	paintings, err := s.paintingRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Painting, len(paintings))
	for i := range paintings {
		byID[paintings[i].ID] = &paintings[i]
	}
	images, err := s.paintingRepo.FirstImages(ids)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	lines := make(map[string]*CartLine, len(entries))
	for _, entry := range entries {
		painting := byID[entry.paintingID]
		if painting == nil {
			continue
		}
		price := entry.unitPrice
		if !entry.priced {
			resolved, ok := catalogPrice(painting, entry.widthCm, entry.heightCm)
			if !ok {
				continue
			}
			price = resolved
		}
		key := guestcart.LineKey(entry.paintingID, entry.widthCm, entry.heightCm)
		if line, ok := lines[key]; ok {
			line.Quantity += entry.quantity
			continue
		}
		line := &CartLine{
			Key:          key,
			PaintingID:   painting.ID,
			Title:        painting.Title,
			Kind:         painting.Kind,
			WidthCm:      entry.widthCm,
			HeightCm:     entry.heightCm,
			UnitPriceMAD: price,
			Quantity:     entry.quantity,
		}
		if image, ok := images[painting.ID]; ok {
			line.ImageURL = image.URL
		}
		lines[key] = line
		keys = append(keys, key)
	}

	var subtotal int64
	for _, key := range keys {
		line := lines[key]
		line.Quantity = clampQuantity(line.Quantity, line.Kind == constants.PaintingKindUnique)
		line.LineTotalMAD = line.UnitPriceMAD * int64(line.Quantity)
		subtotal += line.LineTotalMAD
		summary.Items = append(summary.Items, *line)
	}
	summary.Totals = ComputeTotals(subtotal, discountPercent)
	return summary, nil
}

// AddToCart adds a variant to the cart of scope, merging with an existing line.
func (s *CartService) AddToCart(ctx context.Context, scope CartScope, input AddToCartInput) error {
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if fields := validateStruct(input, nil); fields != nil {
		return ErrInvalidInput
	}
	if (input.WidthCm == nil) != (input.HeightCm == nil) {
		return ErrInvalidInput
	}

	err := s.retry.Do(ctx, func() error {
		painting, err := s.paintingRepo.GetByID(input.PaintingID)
		if err != nil {
			return err
		}
		if painting == nil {
			return ErrNotFound
		}
		unitPrice := painting.PriceMAD
		if input.WidthCm != nil {
			option, err := s.paintingRepo.FindOption(painting.ID, *input.WidthCm, *input.HeightCm)
			if err != nil {
				return err
			}
			if option == nil {
				return ErrOptionNotFound
			}
			unitPrice = option.PriceMAD
		}

		if !scope.authenticated() {
			return s.addGuestLine(scope.Guest, painting, input)
		}
		if err := s.requireUser(scope.UserID); err != nil {
			return err
		}
		return s.db.Transaction(func(tx *gorm.DB) error {
			return s.upsertRow(s.cartRepo.WithTx(tx), scope.UserID, painting, input.WidthCm, input.HeightCm, input.Quantity, unitPrice)
		})
	})
	if err != nil {
		return err
	}
	s.metrics.CartAdded(!scope.authenticated())
	return nil
}

func (s *CartService) addGuestLine(store guestcart.Store, painting *models.Painting, input AddToCartInput) error {
	if store == nil {
		return ErrInvalidInput
	}
	key := guestcart.LineKey(painting.ID, input.WidthCm, input.HeightCm)
	lines, index := collapseGuestLines(store.Lines(), key)
	if index >= 0 {
		lines[index].Quantity = mergeQuantity(lines[index].Quantity, input.Quantity, painting.IsUnique())
	} else {
		lines = append(lines, guestcart.Line{
			PaintingID: painting.ID,
			WidthCm:    input.WidthCm,
			HeightCm:   input.HeightCm,
			Quantity:   initialQuantity(input.Quantity, painting.IsUnique()),
		})
	}
	return store.Save(lines)
}

// upsertRow adds quantity to the user's row for the variant, creating it with
// the given price snapshot when absent.
func (s *CartService) upsertRow(repo repository.CartRepository, userID uint, painting *models.Painting, widthCm, heightCm *int, quantity int, unitPrice int64) error {
	existing, err := repo.GetVariant(userID, painting.ID, dimensionValue(widthCm), dimensionValue(heightCm))
	if err != nil {
		return err
	}
	if existing != nil {
		return repo.UpdateQuantity(existing.ID, mergeQuantity(existing.Quantity, quantity, painting.IsUnique()))
	}
	return repo.Create(&models.CartItem{
		UserID:       userID,
		PaintingID:   painting.ID,
		WidthCm:      dimensionValue(widthCm),
		HeightCm:     dimensionValue(heightCm),
		Quantity:     initialQuantity(quantity, painting.IsUnique()),
		UnitPriceMAD: unitPrice,
	})
}

// UpdateCartItem sets the quantity of the line identified by key.
// UNIQUE paintings are silently clamped to 1.
func (s *CartService) UpdateCartItem(ctx context.Context, scope CartScope, key string, quantity int) error {
	if quantity < 1 || quantity > constants.CartMaxQuantity {
		return ErrInvalidInput
	}
	paintingID, widthCm, heightCm, err := guestcart.ParseKey(key)
	if err != nil {
		return ErrInvalidInput
	}
	key = guestcart.LineKey(paintingID, widthCm, heightCm)

	return s.retry.Do(ctx, func() error {
		if !scope.authenticated() {
			return s.updateGuestLine(scope.Guest, key, paintingID, quantity)
		}
		if err := s.requireUser(scope.UserID); err != nil {
			return err
		}
		existing, err := s.cartRepo.GetVariant(scope.UserID, paintingID, dimensionValue(widthCm), dimensionValue(heightCm))
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		painting, err := s.paintingRepo.GetByID(paintingID)
		if err != nil {
			return err
		}
		if painting.IsUnique() {
			quantity = constants.CartUniqueMax
		}
		return s.cartRepo.UpdateQuantity(existing.ID, quantity)
	})
}

func (s *CartService) updateGuestLine(store guestcart.Store, key string, paintingID uint, quantity int) error {
	if store == nil {
		return nil
	}
	lines, index := collapseGuestLines(store.Lines(), key)
	if index < 0 {
		return nil
	}
	painting, err := s.paintingRepo.GetByID(paintingID)
	if err != nil {
		return err
	}
	if painting != nil && painting.IsUnique() {
		quantity = constants.CartUniqueMax
	}
	lines[index].Quantity = quantity
	return store.Save(lines)
}

// RemoveCartItem deletes the line identified by key.
func (s *CartService) RemoveCartItem(ctx context.Context, scope CartScope, key string) error {
	paintingID, widthCm, heightCm, err := guestcart.ParseKey(key)
	if err != nil {
		return ErrInvalidInput
	}
	key = guestcart.LineKey(paintingID, widthCm, heightCm)

	if !scope.authenticated() {
		if scope.Guest == nil {
			return nil
		}
		lines := scope.Guest.Lines()
		kept := lines[:0]
		for _, line := range lines {
			if line.Key() != key {
				kept = append(kept, line)
			}
		}
		if len(kept) == len(lines) {
			return nil
		}
		return scope.Guest.Save(kept)
	}

	return s.retry.Do(ctx, func() error {
		if err := s.requireUser(scope.UserID); err != nil {
			return err
		}
		existing, err := s.cartRepo.GetVariant(scope.UserID, paintingID, dimensionValue(widthCm), dimensionValue(heightCm))
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		return s.cartRepo.Delete(existing.ID)
	})
}

// CartCount returns the number of units in the cart.
func (s *CartService) CartCount(ctx context.Context, scope CartScope) (int64, error) {
	if !scope.authenticated() {
		if scope.Guest == nil {
			return 0, nil
		}
		entries, err := s.loadEntries(scope)
		if err != nil {
			return 0, err
		}
		var total int64
		err = s.retry.Do(ctx, func() error {
			summary, err := s.summarize(entries, 0)
			if err != nil {
				return err
			}
			total = 0
			for _, line := range summary.Items {
				total += int64(line.Quantity)
			}
			return nil
		})
		return total, err
	}
	var total int64
	err := s.retry.Do(ctx, func() error {
		var err error
		total, err = s.cartRepo.SumQuantity(scope.UserID)
		return err
	})
	return total, err
}

// ClearCart removes every persisted line of the user.
func (s *CartService) ClearCart(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, ErrInvalidInput
	}
	var removed int64
	err := s.retry.Do(ctx, func() error {
		var err error
		removed, err = s.cartRepo.ClearByUser(userID)
		return err
	})
	return removed, err
}

// MergeGuestCartIntoUser folds the guest lines into the user's persisted cart
// and returns how many lines were merged. Lines whose painting or size no
// longer exists are skipped. The guest store is emptied in every case.
func (s *CartService) MergeGuestCartIntoUser(ctx context.Context, userID uint, guest guestcart.Store) (int, error) {
	if guest == nil {
		return 0, nil
	}
	lines := guest.Lines()
	defer func() {
		if err := guest.Save(nil); err != nil {
			logger.Warnw("cart_merge_clear_guest_failed", "user_id", userID, "error", err)
		}
	}()
	if len(lines) == 0 || userID == 0 {
		return 0, nil
	}

	merged := 0
	err := s.retry.Do(ctx, func() error {
		merged = 0
		return s.db.Transaction(func(tx *gorm.DB) error {
			cartRepo := s.cartRepo.WithTx(tx)
			paintingRepo := s.paintingRepo.WithTx(tx)
			for _, line := range lines {
				painting, err := paintingRepo.GetByID(line.PaintingID)
				if err != nil {
					return err
				}
				if painting == nil {
					continue
				}
				unitPrice := painting.PriceMAD
				if line.WidthCm != nil && line.HeightCm != nil {
					option, err := paintingRepo.FindOption(painting.ID, *line.WidthCm, *line.HeightCm)
					if err != nil {
						return err
					}
					if option == nil {
						continue
					}
					unitPrice = option.PriceMAD
				}
				if err := s.upsertRow(cartRepo, userID, painting, line.WidthCm, line.HeightCm, line.Quantity, unitPrice); err != nil {
					return err
				}
				merged++
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	s.metrics.CartMerged(merged)
	return merged, nil
}

func (s *CartService) requireUser(userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return nil
}

// catalogPrice resolves the unit price of a variant from the catalog. A size
// with no matching recreation option does not resolve.
func catalogPrice(painting *models.Painting, widthCm, heightCm *int) (int64, bool) {
	if widthCm == nil || heightCm == nil {
		return painting.PriceMAD, true
	}
	for _, option := range painting.RecreationOptions {
		if option.WidthCm == *widthCm && option.HeightCm == *heightCm {
			return option.PriceMAD, true
		}
	}
	return 0, false
}

func mergeQuantity(current, added int, unique bool) int {
	if unique {
		return constants.CartUniqueMax
	}
	total := current + added
	if total > constants.CartMaxQuantity {
		return constants.CartMaxQuantity
	}
	return total
}

func initialQuantity(quantity int, unique bool) int {
	return mergeQuantity(0, quantity, unique)
}

// clampQuantity bounds a stored quantity, which a guest cookie may carry
// out of range.
func clampQuantity(quantity int, unique bool) int {
	switch {
	case quantity < 1:
		return 1
	case unique:
		return constants.CartUniqueMax
	case quantity > constants.CartMaxQuantity:
		return constants.CartMaxQuantity
	}
	return quantity
}

// collapseGuestLines folds every line matching key into the first one and
// returns its index, or -1 when no line matches.
func collapseGuestLines(lines []guestcart.Line, key string) ([]guestcart.Line, int) {
	out := make([]guestcart.Line, 0, len(lines))
	index := -1
	for _, line := range lines {
		if line.Key() != key {
			out = append(out, line)
			continue
		}
		if index >= 0 {
			out[index].Quantity += line.Quantity
			continue
		}
		index = len(out)
		out = append(out, line)
	}
	return out, index
}

func uniquePaintingIDs(entries []cartEntry) []uint {
	seen := make(map[uint]struct{}, len(entries))
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.paintingID]; ok {
			continue
		}
		seen[entry.paintingID] = struct{}{}
		ids = append(ids, entry.paintingID)
	}
	return ids
}

func dimensionPtr(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}

func dimensionValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
