package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/repository"
)

type statusCopy struct {
	title   string
	message string
}

var orderStatusCopy = map[string]statusCopy{
	constants.OrderStatusInProgress: {
		title:   "Votre commande est en cours de préparation",
		message: "Notre équipe prépare votre commande avec soin. Nous vous tiendrons informé de la suite.",
	},
	constants.OrderStatusReadyForDelivery: {
		title:   "Votre commande est prête !",
		message: "Votre commande est prête et sera bientôt expédiée ou disponible pour retrait.",
	},
	constants.OrderStatusCompleted: {
		title:   "Votre commande a été livrée",
		message: "Nous espérons que vous apprécierez votre acquisition. Merci de votre confiance !",
	},
	constants.OrderStatusCanceled: {
		title:   "Votre commande a été annulée",
		message: "Si vous avez des questions, n'hésitez pas à nous contacter.",
	},
}

var defaultStatusCopy = statusCopy{
	title:   "Mise à jour de votre commande",
	message: "Le statut de votre commande a été mis à jour.",
}

// OrderEmailService renders and sends order emails. The worker drives it.
type OrderEmailService struct {
	orderRepo repository.OrderRepository
	mailer    Mailer
	siteURL   string
}

func NewOrderEmailService(orderRepo repository.OrderRepository, mailer Mailer, siteURL string) *OrderEmailService {
	return &OrderEmailService{
		orderRepo: orderRepo,
		mailer:    mailer,
		siteURL:   strings.TrimRight(strings.TrimSpace(siteURL), "/"),
	}
}

// SendConfirmation mails the recap of a freshly placed order.
func (s *OrderEmailService) SendConfirmation(ctx context.Context, orderID uint) error {
	order, err := s.load(orderID)
	if err != nil {
		return err
	}
	subject, body := buildOrderConfirmationContent(order, s.siteURL)
	return s.mailer.Send(order.Email, subject, body)
}

// SendStatusUpdate mails a status change.
func (s *OrderEmailService) SendStatusUpdate(ctx context.Context, orderID uint, status string) error {
	order, err := s.load(orderID)
	if err != nil {
		return err
	}
	subject, body := buildOrderStatusContent(order, status, s.siteURL)
	return s.mailer.Send(recipientOf(order), subject, body)
}

func (s *OrderEmailService) load(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// recipientOf prefers the account email over the one typed at checkout.
func recipientOf(order *models.Order) string {
	if order.User != nil && order.User.Email != "" {
		return order.User.Email
	}
	return order.Email
}

func buildOrderConfirmationContent(order *models.Order, siteURL string) (string, string) {
	ref := OrderShortReference(order.Reference)
	subject := fmt.Sprintf("Confirmation de commande #%s", ref)

	var b strings.Builder
	fmt.Fprintf(&b, "Bonjour %s,\n\n", order.FullName)
	fmt.Fprintf(&b, "Votre commande #%s a bien été reçue. Nous vous tiendrons informé de son avancement.\n\n", ref)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s (%d x %d cm) x%d : %s\n",
			item.Title, item.WidthCm, item.HeightCm, item.Quantity,
			FormatMAD(item.UnitPriceMAD*int64(item.Quantity)))
	}
	fmt.Fprintf(&b, "\nSous-total : %s\n", FormatMAD(order.SubtotalMAD))
	if order.DiscountAmountMAD > 0 {
		code := ""
		if order.DiscountCode != nil {
			code = " " + order.DiscountCode.Code
		}
		fmt.Fprintf(&b, "Réduction%s (-%d%%) : -%s\n", code, order.DiscountPercent, FormatMAD(order.DiscountAmountMAD))
	}
	if order.ShippingFeeMAD > 0 {
		fmt.Fprintf(&b, "Livraison : %s\n", FormatMAD(order.ShippingFeeMAD))
	} else {
		b.WriteString("Livraison : Gratuite\n")
	}
	fmt.Fprintf(&b, "Total : %s\n\n", FormatMAD(order.TotalMAD))
	fmt.Fprintf(&b, "Adresse de livraison : %s, %s %s\nTél : %s\n", order.Address, order.City, order.PostalCode, order.Phone)
	if siteURL != "" {
		fmt.Fprintf(&b, "\nSuivre ma commande : %s/orders\n", siteURL)
	}
	return subject, b.String()
}

func buildOrderStatusContent(order *models.Order, status, siteURL string) (string, string) {
	ref := OrderShortReference(order.Reference)
	text, ok := orderStatusCopy[status]
	if !ok {
		text = defaultStatusCopy
	}
	subject := fmt.Sprintf("%s - Commande #%s", text.title, ref)

	var b strings.Builder
	if order.FullName != "" {
		fmt.Fprintf(&b, "Bonjour %s,\n\n", order.FullName)
	} else {
		b.WriteString("Bonjour,\n\n")
	}
	fmt.Fprintf(&b, "%s\n\n", text.message)
	if siteURL != "" {
		fmt.Fprintf(&b, "Voir ma commande : %s/orders\n", siteURL)
	}
	return subject, b.String()
}

// FormatMAD renders whole dirhams with a space as thousands separator.
func FormatMAD(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + " MAD"
}
