package shopping

import (
	"context"
	"errors"
	"testing"

	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/pantry"
	"meal-planner/internal/pkg/common"
)

type fakePlans struct {
	plans map[string]*mealplan.MealPlan
}

func (f *fakePlans) GetMealPlan(_ context.Context, userID, planID string) (*mealplan.MealPlan, error) {
	plan, ok := f.plans[planID]
	if !ok || plan.UserID != userID {
		return nil, common.ErrPlanNotFound
	}
	return plan, nil
}

type fakePantry struct {
	items []pantry.Item
	err   error
	calls int
}

func (f *fakePantry) ListPantryItems(_ context.Context, _ string) ([]pantry.Item, error) {
	f.calls++
	return f.items, f.err
}

type fakeLists struct {
	created []*ShoppingList
	err     error
}

func (f *fakeLists) CreateShoppingList(_ context.Context, list *ShoppingList) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, list)
	return nil
}

func (f *fakeLists) ListShoppingLists(_ context.Context, userID string) ([]ShoppingList, error) {
	var out []ShoppingList
	for i := len(f.created) - 1; i >= 0; i-- {
		if f.created[i].UserID == userID {
			out = append(out, *f.created[i])
		}
	}
	return out, nil
}

func (f *fakeLists) GetShoppingList(_ context.Context, userID, listID string) (*ShoppingList, error) {
	for _, l := range f.created {
		if l.ID == listID && l.UserID == userID {
			return l, nil
		}
	}
	return nil, common.ErrShoppingListNotFound
}

func (f *fakeLists) SetItemChecked(ctx context.Context, userID, listID string, index int, checked bool) (*ShoppingList, error) {
	l, err := f.GetShoppingList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	if index >= len(l.Items) {
		return nil, common.ErrInvalidItemIndex
	}
	l.Items[index].Checked = checked
	return l, nil
}

func (f *fakeLists) DeleteShoppingList(_ context.Context, userID, listID string) error {
	for i, l := range f.created {
		if l.ID == listID && l.UserID == userID {
			f.created = append(f.created[:i], f.created[i+1:]...)
			return nil
		}
	}
	return common.ErrShoppingListNotFound
}

func newTestService(pantryItems []pantry.Item) (*Service, *fakePantry, *fakeLists) {
	plans := &fakePlans{plans: map[string]*mealplan.MealPlan{
		"plan-1": {ID: "plan-1", UserID: "user-1", Days: spinachPlan(false)},
	}}
	p := &fakePantry{items: pantryItems}
	lists := &fakeLists{}
	return NewService(plans, p, lists), p, lists
}

func TestServiceGenerate(t *testing.T) {
	svc, _, lists := newTestService([]pantry.Item{{Name: "spinach", Quantity: 1, Unit: "cups"}})

	list, err := svc.Generate(context.Background(), "user-1", "plan-1", true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if list.ID == "" || list.CreatedAt == "" {
		t.Errorf("expected id and created_at to be set: %+v", list)
	}
	if list.MealPlanID != "plan-1" || list.UserID != "user-1" {
		t.Errorf("unexpected owner fields: %+v", list)
	}
	if len(lists.created) != 1 {
		t.Fatalf("expected one persisted list, got %d", len(lists.created))
	}
	if got := list.Items[0]; got.Quantity != 2 || got.PantryHas != 1 || !got.InPantry {
		t.Errorf("unexpected spinach: %+v", got)
	}
}

func TestServiceGenerateWithoutSubtractSkipsPantry(t *testing.T) {
	svc, p, _ := newTestService([]pantry.Item{{Name: "spinach", Quantity: 1, Unit: "cups"}})

	list, err := svc.Generate(context.Background(), "user-1", "plan-1", false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.calls != 0 {
		t.Errorf("pantry should not be read, got %d calls", p.calls)
	}
	if list.Items[0].Quantity != 3 {
		t.Errorf("expected full demand, got %+v", list.Items[0])
	}
}

func TestServiceGeneratePlanNotFound(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		planID string
	}{
		{"missing plan", "user-1", "nope"},
		{"other user's plan", "user-2", "plan-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, lists := newTestService(nil)

			_, err := svc.Generate(context.Background(), tt.userID, tt.planID, true)
			if !errors.Is(err, common.ErrPlanNotFound) {
				t.Fatalf("expected ErrPlanNotFound, got %v", err)
			}
			if len(lists.created) != 0 {
				t.Errorf("no list should be created")
			}
		})
	}
}

func TestServiceGeneratePantryFailureIsAbsorbed(t *testing.T) {
	svc, p, lists := newTestService(nil)
	p.err = errors.New("pantry down")

	list, err := svc.Generate(context.Background(), "user-1", "plan-1", true)
	if err != nil {
		t.Fatalf("pantry failure should not fail generation: %v", err)
	}
	if len(lists.created) != 1 {
		t.Fatal("list should still be persisted")
	}
	for _, item := range list.Items {
		if item.InPantry {
			t.Errorf("no item should be reconciled: %+v", item)
		}
	}
}

func TestServiceGenerateCancelledContext(t *testing.T) {
	svc, _, lists := newTestService(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Generate(ctx, "user-1", "plan-1", true); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(lists.created) != 0 {
		t.Errorf("cancelled request must not persist")
	}
}

func TestServiceGeneratePersistFailure(t *testing.T) {
	svc, _, lists := newTestService(nil)
	storeErr := errors.New("disk full")
	lists.err = storeErr

	if _, err := svc.Generate(context.Background(), "user-1", "plan-1", true); !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestServiceSetChecked(t *testing.T) {
	svc, _, _ := newTestService(nil)
	ctx := context.Background()

	list, err := svc.Generate(ctx, "user-1", "plan-1", false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	updated, err := svc.SetChecked(ctx, "user-1", list.ID, 1, true)
	if err != nil {
		t.Fatalf("SetChecked: %v", err)
	}
	if !updated.Items[1].Checked || updated.Items[0].Checked {
		t.Errorf("only item 1 should be checked: %+v", updated.Items)
	}

	if _, err := svc.SetChecked(ctx, "user-1", list.ID, -1, true); !errors.Is(err, common.ErrInvalidItemIndex) {
		t.Errorf("expected ErrInvalidItemIndex, got %v", err)
	}
	if _, err := svc.SetChecked(ctx, "user-1", list.ID, 99, true); !errors.Is(err, common.ErrInvalidItemIndex) {
		t.Errorf("expected ErrInvalidItemIndex, got %v", err)
	}
}

func TestServiceListGetDelete(t *testing.T) {
	svc, _, _ := newTestService(nil)
	ctx := context.Background()

	first, _ := svc.Generate(ctx, "user-1", "plan-1", false)
	second, _ := svc.Generate(ctx, "user-1", "plan-1", false)

	lists, err := svc.List(ctx, "user-1")
	if err != nil || len(lists) != 2 {
		t.Fatalf("List = %v, %v", lists, err)
	}
	if lists[0].ID != second.ID {
		t.Errorf("expected newest first")
	}

	if _, err := svc.Get(ctx, "user-2", first.ID); !errors.Is(err, common.ErrShoppingListNotFound) {
		t.Errorf("other users must not see the list, got %v", err)
	}
	if err := svc.Delete(ctx, "user-1", first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "user-1", first.ID); !errors.Is(err, common.ErrShoppingListNotFound) {
		t.Errorf("expected deleted list to be gone, got %v", err)
	}
}
