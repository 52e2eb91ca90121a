package trade

import (
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/swapify-api/internal/models"
)

func TestCheckResolution(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()

	trade := func(status string) *models.Trade {
		return &models.Trade{ID: uuid.New(), SenderID: sender, ReceiverID: receiver, Status: status}
	}

	tests := []struct {
		name       string
		trade      *models.Trade
		actingUser uuid.UUID
		newStatus  string
		wantCode   int
	}{
		{"получатель принимает pending", trade(models.TradeStatusPending), receiver, models.TradeStatusAccepted, 0},
		{"получатель отклоняет pending", trade(models.TradeStatusPending), receiver, models.TradeStatusRejected, 0},
		{"отправитель принимает свое предложение", trade(models.TradeStatusPending), sender, models.TradeStatusAccepted, fiber.StatusForbidden},
		{"посторонний отклоняет", trade(models.TradeStatusPending), uuid.New(), models.TradeStatusRejected, fiber.StatusForbidden},
		{"повторное принятие", trade(models.TradeStatusAccepted), receiver, models.TradeStatusAccepted, fiber.StatusConflict},
		{"отклонение после принятия", trade(models.TradeStatusAccepted), receiver, models.TradeStatusRejected, fiber.StatusConflict},
		{"принятие после отклонения", trade(models.TradeStatusRejected), receiver, models.TradeStatusAccepted, fiber.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := checkResolution(tt.trade, tt.actingUser, tt.newStatus)
			if code != tt.wantCode {
				t.Fatalf("код %d, ожидался %d", code, tt.wantCode)
			}
			if code != 0 && message == "" {
				t.Fatal("отказ должен сопровождаться сообщением")
			}
		})
	}
}

func TestParseProductIDs(t *testing.T) {
	idA := uuid.New()
	idB := uuid.New()

	tests := []struct {
		name    string
		input   []string
		wantLen int
		wantErr bool
	}{
		{"nil дает пустой список", nil, 0, false},
		{"пустой список", []string{}, 0, false},
		{"валидные ID", []string{idA.String(), idB.String()}, 2, false},
		{"невалидный ID", []string{idA.String(), "not-a-uuid"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProductIDs(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got == nil {
				t.Fatal("результат не должен быть nil")
			}
			if len(got) != tt.wantLen {
				t.Fatalf("длина %d, ожидалось %d", len(got), tt.wantLen)
			}
		})
	}
}
