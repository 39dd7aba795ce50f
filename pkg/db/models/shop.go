package models

// UnknownShopName is displayed when a seller document is missing or
// unreadable; checkout never fails on a bad shop lookup.
const UnknownShopName = "Unknown Shop"

// DefaultShopID groups cart items whose product carries no seller.
const DefaultShopID = "default"

// Shop is a seller document at shops/{shopId}.
type Shop struct {
	ID        string `firestore:"-" json:"id"`
	Name      string `firestore:"name" json:"name"`
	OwnerName string `firestore:"ownerName,omitempty" json:"ownerName,omitempty"`
	Phone     string `firestore:"phone,omitempty" json:"phone,omitempty"`
	Email     string `firestore:"email,omitempty" json:"email,omitempty"`
	Address   string `firestore:"address,omitempty" json:"address,omitempty"`
}

// DisplayName returns the shop name or the unknown-shop fallback.
func (s *Shop) DisplayName() string {
	if s == nil || s.Name == "" {
		return UnknownShopName
	}
	return s.Name
}
