package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/nexsy/server/models"
	"github.com/nexsy/server/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore is an in-memory stand-in for *store.DB covering every handler
// interface. Listings come back in insertion order, standing in for the
// createdAt sorts the real store applies.
type fakeStore struct {
	products []*models.Product
	users    []*models.User
	coupons  []*models.Coupon
	reviews  []*models.Review
	payments []*models.Payment
}

func newFakeStore() *fakeStore { return &fakeStore{} }

func (f *fakeStore) productByID(id primitive.ObjectID) *models.Product {
	for _, p := range f.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (f *fakeStore) addProduct(p *models.Product) primitive.ObjectID {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Voters == nil {
		p.Voters = []string{}
	}
	if p.Reporters == nil {
		p.Reporters = []string{}
	}
	f.products = append(f.products, p)
	return p.ID
}

// ProductStore

func (f *fakeStore) InsertProduct(_ context.Context, p *models.Product) (primitive.ObjectID, error) {
	return f.addProduct(p), nil
}

func (f *fakeStore) ProductByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	if p := f.productByID(id); p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) AllProducts(_ context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) ProductsByOwner(_ context.Context, email string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.OwnerEmail == email {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) AcceptedProducts(_ context.Context, search string, page, limit int64) ([]models.Product, int64, error) {
	var filtered []models.Product
	for _, p := range f.products {
		if p.Status != models.StatusAccepted {
			continue
		}
		if search != "" && !hasTagMatch(p.Tags, search) {
			continue
		}
		filtered = append(filtered, *p)
	}
	total := int64(len(filtered))
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

func hasTagMatch(tags []string, search string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), strings.ToLower(search)) {
			return true
		}
	}
	return false
}

func (f *fakeStore) TrendingProducts(_ context.Context, limit int64) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.Status == models.StatusAccepted {
			out = append(out, *p)
		}
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) FeaturedProducts(_ context.Context, limit int64) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.Status == models.StatusAccepted && p.Featured {
			out = append(out, *p)
		}
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ReportedProducts(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if len(p.Reporters) > 0 {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateProductStatus(_ context.Context, id primitive.ObjectID, status *string, featured *bool) error {
	p := f.productByID(id)
	if p == nil {
		return store.ErrNotFound
	}
	if status != nil {
		p.Status = *status
	}
	if featured != nil {
		p.Featured = *featured
	}
	return nil
}

func (f *fakeStore) UpdateProductDetails(_ context.Context, id primitive.ObjectID, upd *models.Product) error {
	p := f.productByID(id)
	if p == nil {
		return store.ErrNotFound
	}
	p.Title = upd.Title
	p.Description = upd.Description
	p.Tags = upd.Tags
	p.ExternalURL = upd.ExternalURL
	p.ImageURL = upd.ImageURL
	return nil
}

func (f *fakeStore) SetProductImage(_ context.Context, id primitive.ObjectID, url string) error {
	p := f.productByID(id)
	if p == nil {
		return store.ErrNotFound
	}
	p.ImageURL = url
	return nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) UpvoteProduct(_ context.Context, id primitive.ObjectID, voter string) (*models.Product, error) {
	p := f.productByID(id)
	if p == nil {
		return nil, store.ErrNotFound
	}
	for _, v := range p.Voters {
		if v == voter {
			return nil, store.ErrDuplicate
		}
	}
	p.Voters = append(p.Voters, voter)
	p.Upvotes++
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ReportProduct(_ context.Context, id primitive.ObjectID, reporter string) error {
	p := f.productByID(id)
	if p == nil {
		return store.ErrNotFound
	}
	for _, rep := range p.Reporters {
		if rep == reporter {
			return nil
		}
	}
	p.Reporters = append(p.Reporters, reporter)
	return nil
}

func (f *fakeStore) ClearReports(_ context.Context, id primitive.ObjectID) error {
	p := f.productByID(id)
	if p == nil {
		return store.ErrNotFound
	}
	p.Reporters = []string{}
	return nil
}

// UserStore

func (f *fakeStore) userByEmail(email string) *models.User {
	for _, u := range f.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	if u := f.userByEmail(email); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	if f.userByEmail(user.Email) != nil {
		return primitive.NilObjectID, store.ErrDuplicate
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users = append(f.users, user)
	return user.ID, nil
}

func (f *fakeStore) ListUsers(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeStore) UpdateUserRole(_ context.Context, id primitive.ObjectID, role string) error {
	for _, u := range f.users {
		if u.ID == id {
			u.Role = role
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) SetSubscribed(_ context.Context, email string, subscribed bool) error {
	u := f.userByEmail(email)
	if u == nil {
		return store.ErrNotFound
	}
	u.Subscribed = subscribed
	return nil
}

func (f *fakeStore) UserRole(_ context.Context, email string) (string, error) {
	u := f.userByEmail(email)
	if u == nil {
		return "", store.ErrNotFound
	}
	return u.Role, nil
}

// CouponStore

func (f *fakeStore) InsertCoupon(_ context.Context, c *models.Coupon) (primitive.ObjectID, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.coupons = append(f.coupons, c)
	return c.ID, nil
}

func (f *fakeStore) ListCoupons(_ context.Context) ([]models.Coupon, error) {
	out := make([]models.Coupon, 0, len(f.coupons))
	for _, c := range f.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) UpdateCoupon(_ context.Context, id primitive.ObjectID, upd *models.Coupon) (int64, error) {
	for _, c := range f.coupons {
		if c.ID == id {
			c.Code = upd.Code
			c.Discount = upd.Discount
			c.ExpiryDate = upd.ExpiryDate
			c.Description = upd.Description
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) DeleteCoupon(_ context.Context, id primitive.ObjectID) (int64, error) {
	for i, c := range f.coupons {
		if c.ID == id {
			f.coupons = append(f.coupons[:i], f.coupons[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) ValidCouponByCode(_ context.Context, code string, now time.Time) (*models.Coupon, error) {
	for _, c := range f.coupons {
		if c.Code == code && !c.Expired(now) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

// ReviewStore

func (f *fakeStore) InsertReview(_ context.Context, r *models.Review) (primitive.ObjectID, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	f.reviews = append(f.reviews, r)
	return r.ID, nil
}

func (f *fakeStore) ReviewsByProduct(_ context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.reviews {
		if r.ProductID == productID {
			out = append(out, *r)
		}
	}
	return out, nil
}

// PaymentStore

func (f *fakeStore) InsertPayment(_ context.Context, p *models.Payment) error {
	f.payments = append(f.payments, p)
	return nil
}
