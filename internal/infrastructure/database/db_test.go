package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/pantry"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(context.Background(), config.DatabaseConfig{
		Driver: DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "nested", "meal-planner.db"),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql", DSN: "x"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	if err := db.CreateSchema(context.Background()); err != nil {
		t.Fatalf("second CreateSchema: %v", err)
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestRebind(t *testing.T) {
	query := `SELECT a FROM t WHERE a = ? AND b = ? OR c = ?`

	pg := &DB{driver: DriverPostgres}
	if got := pg.rebind(query); got != `SELECT a FROM t WHERE a = $1 AND b = $2 OR c = $3` {
		t.Errorf("postgres rebind = %s", got)
	}
	lite := &DB{driver: DriverSQLite}
	if got := lite.rebind(query); got != query {
		t.Errorf("sqlite should keep ? placeholders, got %s", got)
	}
	if pg.forUpdate() == "" || lite.forUpdate() != "" {
		t.Errorf("FOR UPDATE should only apply to postgres")
	}
}

func testPlan(id, userID, createdAt string) *mealplan.MealPlan {
	days := mealplan.NewWeek()
	days[0].Recipes[mealplan.SlotDinner] = mealplan.Recipe{Ingredients: []mealplan.RawIngredient{
		mealplan.TextIngredient("2 cups spinach"),
		mealplan.RecordIngredient("olive oil", 1, "tbsp", "Pantry"),
	}}
	days[0].IsLeftover[mealplan.SlotLunch] = true
	return &mealplan.MealPlan{
		ID:        id,
		UserID:    userID,
		PlanType:  mealplan.PlanTypeWeekly,
		StartDate: createdAt,
		EndDate:   createdAt,
		Days:      days,
		CreatedAt: createdAt,
	}
}

func TestMealPlanRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.CreateMealPlan(ctx, testPlan("plan-1", "user-1", "2024-01-01T00:00:00.000000Z")); err != nil {
		t.Fatalf("CreateMealPlan: %v", err)
	}
	if err := db.CreateMealPlan(ctx, testPlan("plan-2", "user-1", "2024-01-02T00:00:00.000000Z")); err != nil {
		t.Fatalf("CreateMealPlan: %v", err)
	}

	got, err := db.GetMealPlan(ctx, "user-1", "plan-1")
	if err != nil {
		t.Fatalf("GetMealPlan: %v", err)
	}
	ingredients := got.Days[0].Recipes[mealplan.SlotDinner].Ingredients
	if len(ingredients) != 2 || ingredients[0].Text != "2 cups spinach" || ingredients[1].Record == nil {
		t.Errorf("ingredients did not round-trip: %+v", ingredients)
	}
	if !got.Days[0].IsLeftover[mealplan.SlotLunch] {
		t.Errorf("leftover flag did not round-trip")
	}
	if got.DietaryPreferences == nil {
		t.Errorf("nil preferences should be stored as an empty list")
	}

	if _, err := db.GetMealPlan(ctx, "user-2", "plan-1"); !errors.Is(err, common.ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound for other user, got %v", err)
	}

	plans, err := db.ListMealPlans(ctx, "user-1")
	if err != nil || len(plans) != 2 || plans[0].ID != "plan-2" {
		t.Errorf("ListMealPlans = %v, %v", plans, err)
	}

	days := mealplan.NewWeek()[:1]
	if err := db.UpdateMealPlanDays(ctx, "user-1", "plan-1", days); err != nil {
		t.Fatalf("UpdateMealPlanDays: %v", err)
	}
	got, _ = db.GetMealPlan(ctx, "user-1", "plan-1")
	if len(got.Days) != 1 {
		t.Errorf("expected days to be replaced, got %d", len(got.Days))
	}
	if err := db.UpdateMealPlanDays(ctx, "user-2", "plan-1", days); !errors.Is(err, common.ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestDeleteMealPlanCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_ = db.CreateMealPlan(ctx, testPlan("plan-1", "user-1", common.NowISO()))
	_ = db.CreateMealPlan(ctx, testPlan("plan-2", "user-1", common.NowISO()))
	for _, l := range []*shopping.ShoppingList{
		{ID: "list-1", UserID: "user-1", MealPlanID: "plan-1", CreatedAt: common.NowISO()},
		{ID: "list-2", UserID: "user-1", MealPlanID: "plan-1", CreatedAt: common.NowISO()},
		{ID: "list-3", UserID: "user-1", MealPlanID: "plan-2", CreatedAt: common.NowISO()},
	} {
		if err := db.CreateShoppingList(ctx, l); err != nil {
			t.Fatalf("CreateShoppingList: %v", err)
		}
	}

	if err := db.DeleteMealPlan(ctx, "user-2", "plan-1"); !errors.Is(err, common.ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound for other user, got %v", err)
	}
	if lists, _ := db.ListShoppingLists(ctx, "user-1"); len(lists) != 3 {
		t.Fatalf("failed delete must not touch shopping lists, got %d", len(lists))
	}

	if err := db.DeleteMealPlan(ctx, "user-1", "plan-1"); err != nil {
		t.Fatalf("DeleteMealPlan: %v", err)
	}
	lists, err := db.ListShoppingLists(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListShoppingLists: %v", err)
	}
	if len(lists) != 1 || lists[0].ID != "list-3" {
		t.Errorf("expected only list-3 to remain, got %+v", lists)
	}
	if _, err := db.GetMealPlan(ctx, "user-1", "plan-1"); !errors.Is(err, common.ErrPlanNotFound) {
		t.Errorf("plan should be gone, got %v", err)
	}
}

func TestPantryRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	threshold := 2.0

	items := []pantry.Item{
		{ID: "p1", UserID: "user-1", Name: "spinach", Quantity: 1, Unit: "cups", Category: "Produce"},
		{ID: "p2", UserID: "user-1", Name: "rice", Quantity: 0.5, Unit: "cups", Category: "Grains & Bread", LowStockThreshold: &threshold},
		{ID: "p3", UserID: "user-1", Name: "apples", Quantity: 3, Unit: "unit", Category: "Produce"},
		{ID: "p4", UserID: "user-2", Name: "milk", Quantity: 1, Unit: "l", Category: "Dairy"},
	}
	for i := range items {
		items[i].CreatedAt = common.NowISO()
		items[i].UpdatedAt = items[i].CreatedAt
		if err := db.CreatePantryItem(ctx, &items[i]); err != nil {
			t.Fatalf("CreatePantryItem: %v", err)
		}
	}

	list, err := db.ListPantryItems(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListPantryItems: %v", err)
	}
	var names []string
	for _, item := range list {
		names = append(names, item.Name)
	}
	want := []string{"rice", "apples", "spinach"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d = %s, want %s", i, names[i], want[i])
		}
	}
	if list[0].LowStockThreshold == nil || *list[0].LowStockThreshold != 2 {
		t.Errorf("threshold did not round-trip: %+v", list[0])
	}
	if list[1].LowStockThreshold != nil {
		t.Errorf("missing threshold should stay nil")
	}

	item, err := db.GetPantryItem(ctx, "user-1", "p1")
	if err != nil {
		t.Fatalf("GetPantryItem: %v", err)
	}
	item.Quantity = 4.25
	item.LowStockThreshold = nil
	if err := db.UpdatePantryItem(ctx, item); err != nil {
		t.Fatalf("UpdatePantryItem: %v", err)
	}
	item, _ = db.GetPantryItem(ctx, "user-1", "p1")
	if item.Quantity != 4.25 {
		t.Errorf("quantity = %v, want 4.25", item.Quantity)
	}

	if _, err := db.GetPantryItem(ctx, "user-2", "p1"); !errors.Is(err, common.ErrPantryItemNotFound) {
		t.Errorf("expected not found for other user, got %v", err)
	}
	if err := db.DeletePantryItem(ctx, "user-1", "p1"); err != nil {
		t.Fatalf("DeletePantryItem: %v", err)
	}
	if err := db.DeletePantryItem(ctx, "user-1", "p1"); !errors.Is(err, common.ErrPantryItemNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestShoppingListRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	older := &shopping.ShoppingList{
		ID: "list-1", UserID: "user-1", MealPlanID: "plan-1",
		Items: []shopping.Item{
			{Name: "spinach", Quantity: 2, Unit: "cups", Category: "Produce", InPantry: true, PantryHas: 1},
			{Name: "olive oil", Quantity: 0, Unit: "tbsp", Category: "Pantry", Checked: true, InPantry: true, PantryHas: 5},
		},
		CreatedAt: "2024-01-01T00:00:00.000000Z",
	}
	newer := &shopping.ShoppingList{
		ID: "list-2", UserID: "user-1", MealPlanID: "plan-1",
		CreatedAt: "2024-01-01T00:00:00.500000Z",
	}
	for _, l := range []*shopping.ShoppingList{older, newer} {
		if err := db.CreateShoppingList(ctx, l); err != nil {
			t.Fatalf("CreateShoppingList: %v", err)
		}
	}

	lists, err := db.ListShoppingLists(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListShoppingLists: %v", err)
	}
	if len(lists) != 2 || lists[0].ID != "list-2" {
		t.Fatalf("expected newest first, got %+v", lists)
	}
	if lists[0].Items == nil || len(lists[0].Items) != 0 {
		t.Errorf("empty list should decode as an empty slice")
	}

	got, err := db.GetShoppingList(ctx, "user-1", "list-1")
	if err != nil {
		t.Fatalf("GetShoppingList: %v", err)
	}
	if got.Items[0].PantryHas != 1 || !got.Items[1].Checked {
		t.Errorf("items did not round-trip: %+v", got.Items)
	}

	updated, err := db.SetItemChecked(ctx, "user-1", "list-1", 0, true)
	if err != nil {
		t.Fatalf("SetItemChecked: %v", err)
	}
	if !updated.Items[0].Checked {
		t.Errorf("item 0 should be checked")
	}
	got, _ = db.GetShoppingList(ctx, "user-1", "list-1")
	if !got.Items[0].Checked || got.Items[0].Quantity != 2 {
		t.Errorf("toggle should only change checked: %+v", got.Items[0])
	}

	if _, err := db.SetItemChecked(ctx, "user-1", "list-1", 2, true); !errors.Is(err, common.ErrInvalidItemIndex) {
		t.Errorf("expected ErrInvalidItemIndex, got %v", err)
	}
	if _, err := db.SetItemChecked(ctx, "user-2", "list-1", 0, true); !errors.Is(err, common.ErrShoppingListNotFound) {
		t.Errorf("expected not found for other user, got %v", err)
	}

	if err := db.DeleteShoppingList(ctx, "user-1", "list-1"); err != nil {
		t.Fatalf("DeleteShoppingList: %v", err)
	}
	if _, err := db.GetShoppingList(ctx, "user-1", "list-1"); !errors.Is(err, common.ErrShoppingListNotFound) {
		t.Errorf("expected deleted list to be gone, got %v", err)
	}
}

// 完整流程：資料庫作為計畫、庫存與清單的儲存
func TestGenerateShoppingListEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	plan := testPlan("plan-1", "user-1", common.NowISO())
	plan.Days[0].Recipes[mealplan.SlotLunch] = mealplan.Recipe{Ingredients: []mealplan.RawIngredient{
		mealplan.TextIngredient("1 cup spinach"),
	}}
	plan.Days[0].IsLeftover[mealplan.SlotLunch] = false
	_ = db.CreateMealPlan(ctx, plan)
	_ = db.CreatePantryItem(ctx, &pantry.Item{
		ID: "p1", UserID: "user-1", Name: "spinach", Quantity: 1, Unit: "cups", Category: "Produce",
		CreatedAt: common.NowISO(), UpdatedAt: common.NowISO(),
	})

	svc := shopping.NewService(db, db, db)
	list, err := svc.Generate(ctx, "user-1", "plan-1", true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	stored, err := db.GetShoppingList(ctx, "user-1", list.ID)
	if err != nil {
		t.Fatalf("GetShoppingList: %v", err)
	}
	if len(stored.Items) != 2 {
		t.Fatalf("expected 2 items, got %+v", stored.Items)
	}
	spinach := stored.Items[0]
	if spinach.Name != "spinach" || spinach.Quantity != 2 || !spinach.InPantry || spinach.PantryHas != 1 {
		t.Errorf("unexpected spinach: %+v", spinach)
	}

	if _, err := svc.Generate(ctx, "user-1", "missing", true); !errors.Is(err, common.ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
	if lists, _ := db.ListShoppingLists(ctx, "user-1"); len(lists) != 1 {
		t.Errorf("failed generation must not create a list, got %d", len(lists))
	}
}
