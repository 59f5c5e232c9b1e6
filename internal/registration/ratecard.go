package registration

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/hexagonlabs/hexagon/pkg/forms"
)

// Errors returned when a rate card field update is rejected. The previous
// value stays in place.
var (
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidNumber = errors.New("invalid number")
	ErrNegative      = errors.New("value must not be negative")
	ErrOutOfRange    = errors.New("value out of range")
	ErrInvalidOption = errors.New("invalid option")
	ErrCardIndex     = errors.New("rate card index out of range")
)

// Platform is where the content is published.
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformYouTube   Platform = "youtube"
	PlatformBlog      Platform = "blog"
	PlatformOther     Platform = "other"
)

// Platforms lists the selectable platforms in display order.
var Platforms = []Platform{
	PlatformTikTok, PlatformInstagram, PlatformFacebook,
	PlatformYouTube, PlatformBlog, PlatformOther,
}

// ContentType is the deliverable format.
type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentReel     ContentType = "reel"
	ContentPost     ContentType = "post"
	ContentStory    ContentType = "story"
	ContentReview   ContentType = "review"
	ContentTutorial ContentType = "tutorial"
	ContentOther    ContentType = "other"
)

// ContentTypes lists the selectable content types in display order.
var ContentTypes = []ContentType{
	ContentVideo, ContentReel, ContentPost, ContentStory,
	ContentReview, ContentTutorial, ContentOther,
}

// Rate card field keys.
const (
	CardPlatform           = "platform"
	CardContentType        = "contentType"
	CardBasePrice          = "basePrice"
	CardDuration           = "duration"
	CardNote               = "note"
	CardRevisions          = "revisions"
	CardExtraRevisionPrice = "extraRevisionPrice"
	CardDeliveryDays       = "deliveryDays"
	CardRushDelivery       = "rushDelivery"
	CardRushFeePercent     = "rushFeePercent"
	CardUsageRightsDays    = "usageRightsDays"
	CardExclusivityDays    = "exclusivityDays"
	CardRawFootage         = "rawFootage"
	CardWhitelisting       = "whitelisting"
	CardLatePenalty        = "latePenalty"
	CardCancellationPolicy = "cancellationPolicy"
	CardDepositRequired    = "depositRequired"
	CardDepositPercent     = "depositPercent"
	CardPaymentOnDelivery  = "paymentOnDelivery"
	CardPaymentNet30       = "paymentNet30"
)

// AdvancedTerms are the optional commercial terms of a rate card.
type AdvancedTerms struct {
	Revisions          int
	ExtraRevisionPrice float64
	DeliveryDays       int
	RushDelivery       bool
	RushFeePercent     float64
	UsageRightsDays    int
	ExclusivityDays    int
	RawFootage         bool
	Whitelisting       bool
	LatePenalty        string
	CancellationPolicy string
	DepositRequired    bool
	DepositPercent     float64
	PaymentOnDelivery  bool
	PaymentNet30       bool
}

// RateCard is one priced offer.
type RateCard struct {
	Platform     Platform
	ContentType  ContentType
	BasePrice    float64
	Duration     int // minutes
	Note         string
	ShowAdvanced bool
	Advanced     AdvancedTerms
}

// NewRateCard returns a card with empty values and the advanced panel closed.
func NewRateCard() RateCard {
	return RateCard{}
}

// Set parses value and stores it in field.
func (c *RateCard) Set(field, value string) error {
	a := &c.Advanced
	switch field {
	case CardPlatform:
		if value != "" && !slices.Contains(Platforms, Platform(value)) {
			return ErrInvalidOption
		}
		c.Platform = Platform(value)
	case CardContentType:
		if value != "" && !slices.Contains(ContentTypes, ContentType(value)) {
			return ErrInvalidOption
		}
		c.ContentType = ContentType(value)
	case CardNote:
		c.Note = value
	case CardLatePenalty:
		a.LatePenalty = value
	case CardCancellationPolicy:
		a.CancellationPolicy = value

	case CardBasePrice:
		return setAmount(&c.BasePrice, value)
	case CardExtraRevisionPrice:
		return setAmount(&a.ExtraRevisionPrice, value)
	case CardRushFeePercent:
		return setPercent(&a.RushFeePercent, value)
	case CardDepositPercent:
		return setPercent(&a.DepositPercent, value)

	case CardDuration:
		return setCount(&c.Duration, value)
	case CardRevisions:
		return setCount(&a.Revisions, value)
	case CardDeliveryDays:
		return setCount(&a.DeliveryDays, value)
	case CardUsageRightsDays:
		return setCount(&a.UsageRightsDays, value)
	case CardExclusivityDays:
		return setCount(&a.ExclusivityDays, value)

	case CardRushDelivery:
		return setFlag(&a.RushDelivery, value)
	case CardRawFootage:
		return setFlag(&a.RawFootage, value)
	case CardWhitelisting:
		return setFlag(&a.Whitelisting, value)
	case CardDepositRequired:
		return setFlag(&a.DepositRequired, value)
	case CardPaymentOnDelivery:
		return setFlag(&a.PaymentOnDelivery, value)
	case CardPaymentNet30:
		return setFlag(&a.PaymentNet30, value)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func parseFloat(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidNumber
	}
	return v, nil
}

func setAmount(dst *float64, value string) error {
	v, err := parseFloat(value)
	if err != nil {
		return err
	}
	if forms.Validate("", v, forms.Min(0)) != nil {
		return ErrNegative
	}
	*dst = v
	return nil
}

func setPercent(dst *float64, value string) error {
	v, err := parseFloat(value)
	if err != nil {
		return err
	}
	if forms.Validate("", v, forms.Range(0, 100)) != nil {
		return ErrOutOfRange
	}
	*dst = v
	return nil
}

func setCount(dst *int, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*dst = 0
		return nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return ErrInvalidNumber
	}
	if forms.Validate("", v, forms.Min(0)) != nil {
		return ErrNegative
	}
	*dst = v
	return nil
}

func setFlag(dst *bool, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "on", "yes":
		*dst = true
		return nil
	case "", "off", "no":
		*dst = false
		return nil
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return ErrInvalidOption
	}
	*dst = v
	return nil
}

// AddCard appends a default card.
func (f *Form) AddCard() {
	f.RateCards = append(f.RateCards, NewRateCard())
}

// RemoveCard removes the card at i. The first card is mandatory, so i == 0
// is refused, as is any index out of range.
func (f *Form) RemoveCard(i int) bool {
	if i <= 0 || i >= len(f.RateCards) {
		return false
	}
	f.RateCards = slices.Delete(f.RateCards, i, i+1)
	return true
}

// UpdateCard sets one field of the card at i and leaves every other card
// untouched.
func (f *Form) UpdateCard(i int, field, value string) error {
	if i < 0 || i >= len(f.RateCards) {
		return ErrCardIndex
	}
	return f.RateCards[i].Set(field, value)
}

// ToggleAdvanced flips the advanced panel of card i. Entered values persist.
func (f *Form) ToggleAdvanced(i int) bool {
	if i < 0 || i >= len(f.RateCards) {
		return false
	}
	f.RateCards[i].ShowAdvanced = !f.RateCards[i].ShowAdvanced
	return true
}
