package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/akverma/order-management-api/internal/model"
	"github.com/akverma/order-management-api/internal/queue"
	"github.com/akverma/order-management-api/internal/repository"
)

type fakeOrderStore struct {
	orders map[primitive.ObjectID]*model.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[primitive.ObjectID]*model.Order{}}
}

func (s *fakeOrderStore) Create(_ context.Context, o *model.Order) error {
	if o.Status == "" {
		o.Status = model.StatusPending
	}
	o.ID = primitive.NewObjectID()
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *fakeOrderStore) FindAll(_ context.Context) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (model.Order, error) {
	if o, ok := s.orders[id]; ok {
		return *o, nil
	}
	return model.Order{}, repository.ErrNotFound
}

func (s *fakeOrderStore) FindByUser(_ context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range s.orders {
		if o.User == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) error {
	o, ok := s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	return nil
}

func (s *fakeOrderStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

type fakeProductStore struct {
	products map[primitive.ObjectID]*model.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[primitive.ObjectID]*model.Product{}}
}

func (s *fakeProductStore) Create(_ context.Context, p *model.Product) error {
	p.ID = primitive.NewObjectID()
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *fakeProductStore) FindAll(_ context.Context) ([]model.Product, error) {
	out := []model.Product{}
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeProductStore) FindByID(_ context.Context, id primitive.ObjectID) (model.Product, error) {
	if p, ok := s.products[id]; ok {
		return *p, nil
	}
	return model.Product{}, repository.ErrNotFound
}

func (s *fakeProductStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, repository.ErrNotFound
	}
	if v, ok := fields["name"].(string); ok {
		p.Name = v
	}
	if v, ok := fields["image"].(string); ok {
		p.Image = v
	}
	if v, ok := fields["price"].(float64); ok {
		p.Price = v
	}
	return *p, nil
}

func (s *fakeProductStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func TestCreateOrderPublishesEvent(t *testing.T) {
	orders := newFakeOrderStore()
	products := newFakeProductStore()
	var published *queue.OrderPlacedEvent
	h := NewOrderHandler(orders, products, func(_ context.Context, ev queue.OrderPlacedEvent) error {
		published = &ev
		return nil
	})

	user := primitive.NewObjectID()
	prod := primitive.NewObjectID()
	body := `{"user":"` + user.Hex() + `","products":["` + prod.Hex() + `"],"quantities":[2],"totalAmount":59.9,"billingInformation":"UPI"}`
	rec, err := doRequest(h.Create, http.MethodPost, body, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(orders.orders) != 1 {
		t.Fatal("order not persisted")
	}
	if published == nil {
		t.Fatal("order.placed event not published")
	}
	if published.UserID != user.Hex() || published.Status != model.StatusPending {
		t.Errorf("event = %+v", published)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	h := NewOrderHandler(newFakeOrderStore(), newFakeProductStore(), nil)
	user := primitive.NewObjectID()
	prod := primitive.NewObjectID()

	cases := []string{
		`{"user":"` + user.Hex() + `","products":[],"quantities":[],"billingInformation":"UPI"}`,                                      // no products
		`{"user":"` + user.Hex() + `","products":["` + prod.Hex() + `"],"quantities":[1,2],"billingInformation":"UPI"}`,               // length mismatch
		`{"user":"` + user.Hex() + `","products":["` + prod.Hex() + `"],"quantities":[1],"billingInformation":"Bitcoin"}`,             // unknown billing
		`{"user":"not-an-id","products":["` + prod.Hex() + `"],"quantities":[1],"billingInformation":"UPI"}`,                          // bad user id
	}
	for _, body := range cases {
		rec, err := doRequest(h.Create, http.MethodPost, body, nil)
		if err != nil {
			t.Fatal(err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestListOrdersPopulatesProductNames(t *testing.T) {
	orders := newFakeOrderStore()
	products := newFakeProductStore()
	h := NewOrderHandler(orders, products, nil)

	known := model.Product{Name: "Mechanical Keyboard", Price: 89, Category: model.CategoryElectronics}
	products.Create(context.Background(), &known)
	missing := primitive.NewObjectID() // deleted product

	orders.Create(context.Background(), &model.Order{
		User:               primitive.NewObjectID(),
		Products:           []primitive.ObjectID{known.ID, missing},
		Quantities:         []int{1, 3},
		TotalAmount:        120,
		BillingInformation: model.BillingCreditCard,
	})

	rec, err := doRequest(h.List, http.MethodGet, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out []populatedOrder
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || len(out[0].Products) != 2 {
		t.Fatalf("unexpected listing: %+v", out)
	}
	if out[0].Products[0].Name != "Mechanical Keyboard" || out[0].Products[0].Quantity != 1 {
		t.Errorf("known product line = %+v", out[0].Products[0])
	}
	if out[0].Products[1].Name != "Unknown Product" || out[0].Products[1].Quantity != 3 {
		t.Errorf("missing product line = %+v", out[0].Products[1])
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	orders := newFakeOrderStore()
	h := NewOrderHandler(orders, newFakeProductStore(), nil)

	o := model.Order{User: primitive.NewObjectID(), BillingInformation: model.BillingUPI}
	orders.Create(context.Background(), &o)

	rec, err := doRequest(h.UpdateStatus, http.MethodPut,
		`{"orderId":"`+o.ID.Hex()+`","newStatus":"Dispatched"}`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got, _ := orders.FindByID(context.Background(), o.ID); got.Status != model.StatusDispatched {
		t.Errorf("status = %q", got.Status)
	}

	rec, err = doRequest(h.UpdateStatus, http.MethodPut,
		`{"orderId":"`+primitive.NewObjectID().Hex()+`","newStatus":"Packed"}`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown order: status = %d", rec.Code)
	}

	rec, err = doRequest(h.UpdateStatus, http.MethodPut,
		`{"orderId":"`+o.ID.Hex()+`","newStatus":"Lost"}`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status: status = %d", rec.Code)
	}
}
