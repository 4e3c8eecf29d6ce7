package productstore_test

import (
	"errors"
	"testing"

	productstore "github.com/dalemusser/mosqueconnect/internal/app/store/products"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/domain/models"
	"github.com/dalemusser/mosqueconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := productstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	biz := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Product{BusinessID: biz, Name: "Medjool Dates", Price: 7.99, InStock: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Currency != productstore.DefaultCurrency || created.Status != "active" {
		t.Errorf("defaults not applied: %+v", created)
	}

	created.Price = 6.49
	created.InStock = false
	created.BusinessID = primitive.NewObjectID() // ignored
	got, err := store.Update(ctx, created.ID, created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Price != 6.49 || got.InStock || got.BusinessID != biz {
		t.Errorf("update result: %+v", got)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(ctx, created.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByID after delete err = %v", err)
	}
}

func TestStore_ListAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := productstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	fx.CreateProduct(ctx, a, "Lamb Chops", 12)
	fx.CreateProduct(ctx, a, "Chicken Thighs", 6)
	fx.CreateProduct(ctx, a, "Beef Mince", 8)
	fx.CreateProduct(ctx, b, "Baklava", 5)

	items, total, err := store.List(ctx, productstore.ListFilter{BusinessID: a}, paging.Params{Page: 1, Limit: 2, Sort: "price"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(items) != 2 || items[0].Name != "Chicken Thighs" {
		t.Errorf("list = %+v total %d", items, total)
	}

	counts, err := store.CountByBusiness(ctx, []primitive.ObjectID{a, b, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("CountByBusiness: %v", err)
	}
	if counts[a] != 3 || counts[b] != 1 || len(counts) != 2 {
		t.Errorf("counts = %v", counts)
	}
}
