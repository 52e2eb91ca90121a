package models

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		want    bool
	}{
		{"принятие из pending", TradeStatusPending, TradeStatusAccepted, true},
		{"отклонение из pending", TradeStatusPending, TradeStatusRejected, true},
		{"повторное принятие", TradeStatusAccepted, TradeStatusAccepted, false},
		{"отклонение после принятия", TradeStatusAccepted, TradeStatusRejected, false},
		{"принятие после отклонения", TradeStatusRejected, TradeStatusAccepted, false},
		{"переход в pending запрещен", TradeStatusPending, TradeStatusPending, false},
		{"неизвестный статус", TradeStatusPending, "canceled", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.current, tt.next); got != tt.want {
				t.Fatalf("CanTransition(%q, %q) = %v, ожидалось %v", tt.current, tt.next, got, tt.want)
			}
		})
	}
}

func TestIsValidTradeStatus(t *testing.T) {
	for _, status := range []string{TradeStatusPending, TradeStatusAccepted, TradeStatusRejected} {
		if !IsValidTradeStatus(status) {
			t.Fatalf("статус %q должен быть валидным", status)
		}
	}
	for _, status := range []string{"", "canceled", "PENDING"} {
		if IsValidTradeStatus(status) {
			t.Fatalf("статус %q не должен быть валидным", status)
		}
	}
}
