package query

// Order is a sort order filter value, e.g. "score" for "order:score".
// The zero value means no order filter.
type Order string

// Rating is a full rating token, e.g. "-rating:safe".
// The zero value means no rating filter.
type Rating string

// Status is a post status filter value, e.g. "pending" for "status:pending".
// The zero value means no status filter.
type Status string

// Order vocabulary.
const (
	OrderID         Order = "id"
	OrderIDDesc     Order = "id_desc"
	OrderScoreAsc   Order = "score_asc"
	OrderScore      Order = "score"
	OrderMpixelsAsc Order = "mpixels_asc"
	OrderMpixels    Order = "mpixels"
	OrderFilesize   Order = "filesize"
	OrderLandscape  Order = "landscape"
	OrderPortrait   Order = "portrait"
	OrderFavcount   Order = "favcount"
	OrderRank       Order = "rank"
)

// Rating vocabulary. A leading '-' negates the rating.
const (
	RatingGeneral         Rating = "rating:general"
	RatingNotGeneral      Rating = "-rating:general"
	RatingSafe            Rating = "rating:safe"
	RatingNotSafe         Rating = "-rating:safe"
	RatingQuestionable    Rating = "rating:questionable"
	RatingNotQuestionable Rating = "-rating:questionable"
	RatingExplicit        Rating = "rating:explicit"
	RatingNotExplicit     Rating = "-rating:explicit"
)

// Status vocabulary.
const (
	StatusDeleted Status = "deleted"
	StatusActive  Status = "active"
	StatusFlagged Status = "flagged"
	StatusPending Status = "pending"
	StatusAny     Status = "any"
)

// The vocabularies are ordered. Their order is the option order shown in the
// search form, so it must not change.
var (
	orders = []Order{
		OrderID, OrderIDDesc, OrderScoreAsc, OrderScore, OrderMpixelsAsc, OrderMpixels,
		OrderFilesize, OrderLandscape, OrderPortrait, OrderFavcount, OrderRank,
	}
	ratings = []Rating{
		RatingGeneral, RatingNotGeneral, RatingSafe, RatingNotSafe,
		RatingQuestionable, RatingNotQuestionable, RatingExplicit, RatingNotExplicit,
	}
	statuses = []Status{
		StatusDeleted, StatusActive, StatusFlagged, StatusPending, StatusAny,
	}
)

// Orders returns the order vocabulary in display order.
func Orders() []Order { return append([]Order(nil), orders...) }

// Ratings returns the rating vocabulary in display order.
func Ratings() []Rating { return append([]Rating(nil), ratings...) }

// Statuses returns the status vocabulary in display order.
func Statuses() []Status { return append([]Status(nil), statuses...) }

// IsSet reports whether an order filter is present.
func (o Order) IsSet() bool { return o != "" }

// IsSet reports whether a rating filter is present.
func (r Rating) IsSet() bool { return r != "" }

// IsSet reports whether a status filter is present.
func (s Status) IsSet() bool { return s != "" }

// Valid reports whether o is a member of the order vocabulary.
func (o Order) Valid() bool { return indexOf(orders, o) >= 0 }

// Valid reports whether r is a member of the rating vocabulary.
func (r Rating) Valid() bool { return indexOf(ratings, r) >= 0 }

// Valid reports whether s is a member of the status vocabulary.
func (s Status) Valid() bool { return indexOf(statuses, s) >= 0 }

// Index returns the position of o in the order vocabulary, or -1.
func (o Order) Index() int { return indexOf(orders, o) }

// Index returns the position of r in the rating vocabulary, or -1.
func (r Rating) Index() int { return indexOf(ratings, r) }

// Index returns the position of s in the status vocabulary, or -1.
func (s Status) Index() int { return indexOf(statuses, s) }

// ParseOrder looks v up in the order vocabulary. Lookup is case-sensitive.
func ParseOrder(v string) (Order, bool) {
	o := Order(v)
	return o, o.Valid()
}

// ParseRating looks up a full rating token, sign included.
func ParseRating(v string) (Rating, bool) {
	r := Rating(v)
	return r, r.Valid()
}

// ParseStatus looks v up in the status vocabulary. Lookup is case-sensitive.
func ParseStatus(v string) (Status, bool) {
	s := Status(v)
	return s, s.Valid()
}

func indexOf[T comparable](list []T, v T) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return -1
}
