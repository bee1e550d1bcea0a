package dialog

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/booruapp/tagsearch-server/internal/normalize"
)

// Message keys for the dialog's user-facing strings.
const (
	MsgTitle       = "Search"
	MsgChooseDate  = "Choose a date"
	MsgSearchImage = "Search an image"
	MsgImageFilter = "Images (%s)"
	MsgOrder       = "Order"
	MsgRating      = "Rating"
	MsgStatus      = "Status"
	MsgDate        = "Date"
	MsgTags        = "Tags"
	MsgOK          = "OK"
	MsgCancel      = "Cancel"
)

// supported lists the bundled locales; the first one is the fallback.
var supported = []language.Tag{language.English, language.French}

var (
	labelCatalog = buildCatalog()
	matcher      = language.NewMatcher(supported)
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	fr := map[string]string{
		MsgTitle:       "Rechercher",
		MsgChooseDate:  "Choisir une date",
		MsgSearchImage: "Rechercher une image",
		MsgImageFilter: "Images (%s)",
		MsgOrder:       "Tri",
		MsgRating:      "Classification",
		MsgStatus:      "Statut",
		MsgDate:        "Date",
		MsgTags:        "Tags",
		MsgOK:          "OK",
		MsgCancel:      "Annuler",
	}
	for key, msg := range fr {
		// SetString only fails on malformed messages, which the table above does not contain.
		_ = b.SetString(language.French, key, msg)
	}
	return b
}

// Locale resolves a language preference such as "English" or "fr" to one of
// the bundled locales. Unknown languages resolve to English.
func Locale(languagePref string) language.Tag {
	code := normalize.LanguageCode(languagePref)
	if code == "" {
		// Fall back to the first two letters of the preference.
		code = strings.ToLower(strings.TrimSpace(languagePref))
		if len(code) > 2 {
			code = code[:2]
		}
	}

	tag, err := language.Parse(code)
	if err != nil {
		return supported[0]
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return supported[0]
	}
	return supported[index]
}

// Labels holds the localized strings rendered by the form.
type Labels struct {
	Locale      string `json:"locale"`
	Language    string `json:"language"` // Display name of Locale, e.g. "French"
	Title       string `json:"title"`
	ChooseDate  string `json:"choose_date"`
	SearchImage string `json:"search_image"`
	ImageFilter string `json:"image_filter"`
	Order       string `json:"order"`
	Rating      string `json:"rating"`
	Status      string `json:"status"`
	Date        string `json:"date"`
	Tags        string `json:"tags"`
	OK          string `json:"ok"`
	Cancel      string `json:"cancel"`
}

// LabelsFor renders the form labels for tag. imagePatterns is the file picker
// filter, e.g. "*.png *.gif *.jpg *.jpeg".
func LabelsFor(tag language.Tag, imagePatterns string) Labels {
	p := message.NewPrinter(tag, message.Catalog(labelCatalog))
	return Labels{
		Locale:      tag.String(),
		Language:    normalize.Language(tag.String()),
		Title:       p.Sprintf(MsgTitle),
		ChooseDate:  p.Sprintf(MsgChooseDate),
		SearchImage: p.Sprintf(MsgSearchImage),
		ImageFilter: p.Sprintf(MsgImageFilter, imagePatterns),
		Order:       p.Sprintf(MsgOrder),
		Rating:      p.Sprintf(MsgRating),
		Status:      p.Sprintf(MsgStatus),
		Date:        p.Sprintf(MsgDate),
		Tags:        p.Sprintf(MsgTags),
		OK:          p.Sprintf(MsgOK),
		Cancel:      p.Sprintf(MsgCancel),
	}
}
