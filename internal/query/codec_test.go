package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// normalizeSpace collapses runs of whitespace so results can be compared
// regardless of the gaps left by token removal.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestDecompose_Order(t *testing.T) {
	for _, o := range Orders() {
		t.Run(string(o), func(t *testing.T) {
			q := Decompose("order:" + string(o))

			assert.Equal(t, o, q.Order)
			assert.Empty(t, strings.TrimSpace(q.Tags))
			assert.Equal(t, "order:"+string(o), Compose(q, ""))
		})
	}
}

func TestDecompose_Rating(t *testing.T) {
	q := Decompose("rating:safe tagA tagB")

	assert.Equal(t, RatingSafe, q.Rating)
	assert.Equal(t, "tagA tagB", strings.TrimSpace(q.Tags))
}

func TestDecompose_NegatedRating(t *testing.T) {
	q := Decompose("cat -rating:explicit")

	assert.Equal(t, RatingNotExplicit, q.Rating)
	assert.Equal(t, "cat", strings.TrimSpace(q.Tags))
}

func TestDecompose_StatusAndDate(t *testing.T) {
	q := Decompose("status:pending date:01/15/2023 cat dog")

	assert.Equal(t, StatusPending, q.Status)
	assert.Equal(t, "01/15/2023", q.Date)
	assert.Equal(t, "cat dog", strings.TrimSpace(q.Tags))

	parsed, ok := q.ParsedDate()
	require.True(t, ok)
	assert.Equal(t, 2023, parsed.Year())
	assert.Equal(t, 15, parsed.Day())
}

func TestDecompose_UnknownValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"order", "order:bogus cat"},
		{"rating", "rating:weird cat"},
		{"status", "status:nope cat"},
		{"case sensitive order", "order:SCORE cat"},
		{"case sensitive status", "status:Active cat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Decompose(tt.input)

			assert.False(t, q.Order.IsSet())
			assert.False(t, q.Rating.IsSet())
			assert.False(t, q.Status.IsSet())
			assert.Equal(t, "cat", strings.TrimSpace(q.Tags))
		})
	}
}

func TestDecompose_DateKeptVerbatim(t *testing.T) {
	q := Decompose("date:2023-13-45 cat")

	assert.Equal(t, "2023-13-45", q.Date)
	_, ok := q.ParsedDate()
	assert.False(t, ok)
	assert.Equal(t, "cat date:2023-13-45", Compose(q, ""))
}

func TestDecompose_OnlyFirstTokenPerCategory(t *testing.T) {
	q := Decompose("order:score cat order:rank")

	assert.Equal(t, OrderScore, q.Order)
	assert.Equal(t, "cat order:rank", strings.TrimSpace(q.Tags))
}

func TestDecompose_NoFilters(t *testing.T) {
	q := Decompose("  cat   dog ")

	assert.Equal(t, "  cat   dog ", q.Tags)
	assert.False(t, q.Order.IsSet())
	assert.False(t, q.Rating.IsSet())
	assert.False(t, q.Status.IsSet())
	assert.Empty(t, q.Date)
}

func TestDecompose_Empty(t *testing.T) {
	q := Decompose("")

	assert.True(t, q.IsZero())
	assert.Equal(t, "", Compose(q, ""))
}

func TestCompose_AllUnset(t *testing.T) {
	assert.Equal(t, "", Compose(Query{}, ""))
}

func TestCompose_ExtraPrefix(t *testing.T) {
	assert.Equal(t, "md5:abcd1234 cat", Compose(Query{Tags: "cat"}, "md5:abcd1234"))
	assert.Equal(t, "md5:abcd1234", Compose(Query{}, "md5:abcd1234"))
}

func TestCompose_SegmentOrder(t *testing.T) {
	q := Query{
		Date:   "02/03/2024",
		Rating: RatingNotSafe,
		Order:  OrderFavcount,
		Status: StatusAny,
		Tags:   "cat",
	}

	got := Compose(q, "md5:ff")

	assert.Equal(t, "md5:ff cat status:any order:favcount -rating:safe date:02/03/2024", got)
}

func TestCompose_SkipsEmptyTags(t *testing.T) {
	got := Compose(Query{Status: StatusActive}, "md5:ff")

	assert.Equal(t, "md5:ff status:active", got)
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"cat dog",
		"cat order:score",
		"status:deleted cat",
		"-rating:questionable cat dog order:id_desc",
		"date:12/31/2020 status:flagged rating:general landscape",
		"order:rank status:any -rating:general date:01/01/2000",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			q := Decompose(in)
			again := Decompose(Compose(q, ""))

			assert.Equal(t, normalizeSpace(q.Tags), normalizeSpace(again.Tags))
			assert.Equal(t, q.Order, again.Order)
			assert.Equal(t, q.Rating, again.Rating)
			assert.Equal(t, q.Status, again.Status)
			assert.Equal(t, q.Date, again.Date)
			assert.ElementsMatch(t, strings.Fields(in), strings.Fields(Compose(q, "")))
		})
	}
}

func TestReverseImagePrefix(t *testing.T) {
	assert.Equal(t, "md5:0cc175b9c0f1b6a831c399e269772661", ReverseImagePrefix("0cc175b9c0f1b6a831c399e269772661"))
	assert.Equal(t, "", ReverseImagePrefix(""))
}

func TestVocabularies(t *testing.T) {
	assert.Len(t, Orders(), 11)
	assert.Len(t, Ratings(), 8)
	assert.Len(t, Statuses(), 5)

	assert.Equal(t, 0, OrderID.Index())
	assert.Equal(t, 10, OrderRank.Index())
	assert.Equal(t, 3, RatingNotSafe.Index())
	assert.Equal(t, 4, StatusAny.Index())
	assert.Equal(t, -1, Order("bogus").Index())

	// Returned slices are copies.
	o := Orders()
	o[0] = "mutated"
	assert.Equal(t, OrderID, Orders()[0])
}
