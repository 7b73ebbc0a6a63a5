package quest

import "errors"

// HintCost is the point price of revealing a landmark's hints.
const HintCost = 50

var ErrAlreadyOwned = errors.New("already owned")

// Coupon is a redeemable partner offer. Redemption is plain point
// arithmetic, no payment integration.
type Coupon struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cost  int    `json:"cost"`
}

func Coupons() []Coupon {
	return []Coupon{
		{ID: "khachapuri", Title: "Free Imeretian khachapuri at the Green Bazaar", Cost: 150},
		{ID: "wine-tasting", Title: "Qvevri wine tasting for two", Cost: 300},
		{ID: "hotel-discount", Title: "20% off a night at Hotel Argo", Cost: 500},
	}
}

func CouponByID(id string) (Coupon, bool) {
	for _, c := range Coupons() {
		if c.ID == id {
			return c, true
		}
	}
	return Coupon{}, false
}

// PurchaseHint spends HintCost and marks the landmark's hints unlocked.
func PurchaseHint(u UserState, landmarkID string) (UserState, error) {
	if u.HasHint(landmarkID) {
		return u, ErrAlreadyOwned
	}
	out, err := Spend(u, HintCost)
	if err != nil {
		return u, err
	}
	out.UnlockedHints = append(out.UnlockedHints, landmarkID)
	return out, nil
}

// RedeemCoupon spends the coupon's cost and records the redemption.
func RedeemCoupon(u UserState, c Coupon) (UserState, error) {
	if u.HasCoupon(c.ID) {
		return u, ErrAlreadyOwned
	}
	out, err := Spend(u, c.Cost)
	if err != nil {
		return u, err
	}
	out.RedeemedCoupons = append(out.RedeemedCoupons, c.ID)
	return out, nil
}
