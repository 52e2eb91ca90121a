package product

import (
	"strings"
	"testing"
)

func TestBuildProductFilters(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		filters   productFilters
		wantWhere string
		wantArgs  int
		wantErr   bool
	}{
		{
			name:      "без фильтров и без пользователя",
			filters:   productFilters{CategoryID: "all", ConditionID: "all", StatusID: "all"},
			wantWhere: "",
			wantArgs:  0,
		},
		{
			name:      "авторизованный пользователь исключает свои товары",
			userID:    "a8cdd93f-43cb-4bd4-88b0-8d9b4d8a2f9a",
			filters:   productFilters{CategoryID: "all", ConditionID: "all", StatusID: "all"},
			wantWhere: "WHERE user_id != $1",
			wantArgs:  1,
		},
		{
			name:      "фильтр по категории",
			filters:   productFilters{CategoryID: "3", ConditionID: "all", StatusID: "all"},
			wantWhere: "WHERE category_id = $1",
			wantArgs:  1,
		},
		{
			name:     "все фильтры вместе",
			userID:   "a8cdd93f-43cb-4bd4-88b0-8d9b4d8a2f9a",
			filters:  productFilters{CategoryID: "3", ConditionID: "1", StatusID: "2", Search: "велосипед"},
			wantArgs: 5,
		},
		{
			name:      "поиск по названию и описанию",
			filters:   productFilters{CategoryID: "all", ConditionID: "all", StatusID: "all", Search: "bike"},
			wantWhere: "WHERE (title ILIKE $1 OR description ILIKE $1)",
			wantArgs:  1,
		},
		{
			name:    "нечисловой фильтр",
			filters: productFilters{CategoryID: "abc", ConditionID: "all", StatusID: "all"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args, err := buildProductFilters(tt.userID, tt.filters)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ожидалась ошибка, получен nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}
			if tt.wantWhere != "" && where != tt.wantWhere {
				t.Errorf("where = %q, ожидалось %q", where, tt.wantWhere)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("len(args) = %d, ожидалось %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestBuildProductFiltersNumbering(t *testing.T) {
	where, args, err := buildProductFilters("a8cdd93f-43cb-4bd4-88b0-8d9b4d8a2f9a", productFilters{
		CategoryID:  "2",
		ConditionID: "all",
		StatusID:    "all",
		Search:      "лампа",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(args) != 3 {
		t.Fatalf("len(args) = %d, ожидалось 3", len(args))
	}
	// Плейсхолдеры должны следовать порядку аргументов
	for _, ph := range []string{"$1", "$2", "$3"} {
		if !strings.Contains(where, ph) {
			t.Errorf("в условии %q нет плейсхолдера %s", where, ph)
		}
	}
	if args[2] != "%лампа%" {
		t.Errorf("поисковый аргумент = %v, ожидалось %%лампа%%", args[2])
	}
}
