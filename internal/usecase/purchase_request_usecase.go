package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"pasarsosmed/internal/domain/entity"
	"pasarsosmed/internal/domain/repository"
	"pasarsosmed/pkg/errors"
)

// SendPurchaseRequestInput describes a formal purchase offer sent into a
// chat. The offer renders as a templated message and carries its payment
// metadata alongside.
type SendPurchaseRequestInput struct {
	RecipientID   string  `json:"recipient_id" validate:"required"`
	ScopeID       string  `json:"scope_id"`
	ItemLabel     string  `json:"item_label" validate:"required"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
	WalletAddress string  `json:"wallet_address"`
	WithAgent     bool    `json:"with_agent"`
}

type PurchaseRequestUseCase struct {
	chat     *ChatUseCase
	userRepo repository.UserRepository
}

func NewPurchaseRequestUseCase(chat *ChatUseCase, userRepo repository.UserRepository) *PurchaseRequestUseCase {
	return &PurchaseRequestUseCase{
		chat:     chat,
		userRepo: userRepo,
	}
}

// SendPurchaseRequest posts a purchase-request message in pending status.
// The same room rules apply as for plain messages; the request increments
// the recipient's unread count like any other message.
func (uc *PurchaseRequestUseCase) SendPurchaseRequest(ctx context.Context, senderID string, input SendPurchaseRequestInput) (*entity.ChatMessage, error) {
	if input.Price <= 0 {
		return nil, errors.BadRequest("Price must be positive", nil)
	}
	if allowed, wait := uc.chat.rateLimiter.Allow(senderID, "purchase_request"); !allowed {
		return nil, errors.TooManyRequests("Too many purchase requests, slow down", wait)
	}

	room, err := uc.chat.GetOrCreateRoom(ctx, senderID, input.RecipientID, input.ScopeID)
	if err != nil {
		return nil, err
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	payment := &entity.PaymentInfo{
		TransactionID: newTransactionID(),
		ItemLabel:     input.ItemLabel,
		Amount:        input.Price,
		Method:        input.PaymentMethod,
		WalletAddress: input.WalletAddress,
		WithAgent:     input.WithAgent,
	}

	message := &entity.ChatMessage{
		ID:          uuid.New().String(),
		RoomID:      room.ID,
		SenderID:    senderID,
		SenderName:  sender.Username,
		RecipientID: input.RecipientID,
		Text:        buildPurchaseRequestText(payment),
		Timestamp:   time.Now().UnixMilli(),
		MessageType: entity.MessageTypePurchaseRequest,
		Status:      entity.PurchaseStatusPending,
		Payment:     payment,
	}

	summaries := uc.chat.fanoutSummaries(ctx, room, message, []string{input.RecipientID}, []string{senderID})
	if err := uc.chat.postMessage(ctx, room, message, summaries); err != nil {
		return nil, err
	}
	return message, nil
}

// Agree marks a purchase-request message as agreed. Only the request's
// recipient may agree; anyone else gets a FORBIDDEN and the status stays
// untouched. Agreeing again re-runs the same transition, which is harmless.
func (uc *PurchaseRequestUseCase) Agree(ctx context.Context, callerID, roomID, messageID string) (*entity.ChatMessage, error) {
	room, err := uc.chat.roomForParticipant(ctx, callerID, roomID)
	if err != nil {
		return nil, err
	}

	message, err := uc.chat.chatRepo.GetMessage(ctx, roomID, messageID)
	if err != nil {
		return nil, err
	}
	if message.MessageType != entity.MessageTypePurchaseRequest {
		return nil, errors.BadRequest("Message is not a purchase request", nil)
	}
	if message.RecipientID != callerID {
		return nil, errors.Forbidden("Only the request recipient can agree", nil)
	}

	if err := uc.chat.chatRepo.UpdateMessageStatus(ctx, roomID, messageID, entity.PurchaseStatusAgreed); err != nil {
		return nil, err
	}
	message.Status = entity.PurchaseStatusAgreed

	caller, err := uc.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	confirmation := fmt.Sprintf("✅ %s agreed to the purchase request.", caller.Username)
	if message.Payment != nil {
		confirmation = fmt.Sprintf("✅ %s agreed to the purchase request (Transaction ID: %s).", caller.Username, message.Payment.TransactionID)
	}
	if _, err := uc.chat.SendMessage(ctx, callerID, SendMessageInput{
		RecipientID: message.SenderID,
		ScopeID:     room.ProductID,
		Text:        confirmation,
	}); err != nil {
		return nil, err
	}

	return message, nil
}

// newTransactionID mints a 7-digit reference echoed in the offer text and
// the payment metadata so both sides can quote it.
func newTransactionID() string {
	return strconv.Itoa(1000000 + rand.Intn(9000000))
}

func buildPurchaseRequestText(payment *entity.PaymentInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🔐 Request to Purchase %s\n\n", payment.ItemLabel)
	fmt.Fprintf(&b, "Transaction ID: %s\n", payment.TransactionID)
	fmt.Fprintf(&b, "Amount: %s\n", strconv.FormatFloat(payment.Amount, 'f', -1, 64))
	fmt.Fprintf(&b, "Payment Method: %s\n", payment.Method)
	if payment.WalletAddress != "" {
		fmt.Fprintf(&b, "Wallet Address: %s\n", payment.WalletAddress)
	}
	b.WriteString("\n")

	if payment.WithAgent {
		b.WriteString("Escrow flow:\n")
		b.WriteString("1. Buyer sends payment to the escrow agent.\n")
		b.WriteString("2. Seller hands over the account credentials.\n")
		b.WriteString("3. The agent verifies the account and releases payment to the seller.")
	} else {
		b.WriteString("Direct transaction: buyer and seller settle payment between themselves.")
	}

	return b.String()
}
