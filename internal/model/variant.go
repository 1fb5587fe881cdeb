// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Variant is the typed view of a component's config. Each known component
// type has exactly one Variant implementation; anything else decodes to
// UnknownConfig.
type Variant interface {
	ComponentType() ComponentType
	Styling() Style
}

// Text is a string that also accepts JSON numbers and booleans, so that
// configs edited by hand ("price": 29) still decode.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		return fmt.Errorf("cannot use %s as text", b[:1])
	}
	*t = Text(b)
	return nil
}

// String returns the plain string.
func (t Text) String() string { return string(t) }

// Flag is a bool that also accepts "true"/"false" style strings and
// numbers. Anything else decodes as false.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.ToLower(strings.TrimSpace(s)))
	}
	switch string(b) {
	case "true", "yes", "on":
		*f = true
		return nil
	case "", "null", "false", "no", "off":
		*f = false
		return nil
	}
	if n, err := strconv.ParseFloat(string(b), 64); err == nil {
		*f = n != 0
		return nil
	}
	return fmt.Errorf("cannot use %q as a flag", b)
}

// Background describes a block backdrop.
type Background struct {
	Type      Text `json:"type"` // solid, gradient, image
	Color     Text `json:"color"`
	From      Text `json:"from"`
	To        Text `json:"to"`
	Direction Text `json:"direction"`
	Image     Text `json:"image"`
	Position  Text `json:"position"`
	Size      Text `json:"size"`
	Overlay   Text `json:"overlay"`
}

// Spacing holds padding tokens (none, sm, md, lg, xl, 2xl).
type Spacing struct {
	PaddingTop    Text `json:"paddingTop"`
	PaddingBottom Text `json:"paddingBottom"`
}

// Animation configures the entrance animation of a block.
type Animation struct {
	Type     Text `json:"type"` // none, fade, slide-up, zoom
	Duration Text `json:"duration"`
}

// CTA is a call-to-action button.
type CTA struct {
	Text  Text `json:"text"`
	Link  Text `json:"link"`
	Style Text `json:"style"`
}

// Style is shared by every variant.
type Style struct {
	Background *Background `json:"background,omitempty"`
	Spacing    *Spacing    `json:"spacing,omitempty"`
	Animation  *Animation  `json:"animation,omitempty"`
}

// Styling implements Variant.
func (s Style) Styling() Style { return s }

// Link is a labelled URL.
type Link struct {
	Text Text `json:"text"`
	Link Text `json:"link"`
}

// SocialLink points at a social profile.
type SocialLink struct {
	Platform Text `json:"platform"`
	URL      Text `json:"url"`
}

// HeaderConfig is the navigation bar.
type HeaderConfig struct {
	Style
	Logo      Text        `json:"logo"`
	Title     Text        `json:"title"`
	Tabs      []HeaderTab `json:"tabs"`
	CTAButton *CTA        `json:"ctaButton,omitempty"`
	Sticky    Flag        `json:"sticky"`
}

// HeroConfig is the lead banner.
type HeroConfig struct {
	Style
	Title        Text `json:"title"`
	Subtitle     Text `json:"subtitle"`
	Description  Text `json:"description"`
	Image        Text `json:"image"`
	Layout       Text `json:"layout"` // centered, split
	PrimaryCTA   *CTA `json:"primaryCTA,omitempty"`
	SecondaryCTA *CTA `json:"secondaryCTA,omitempty"`
}

// FeatureItem is one entry of a features grid.
type FeatureItem struct {
	Icon        Text `json:"icon"`
	Title       Text `json:"title"`
	Description Text `json:"description"`
}

// FeaturesConfig is a grid of features.
type FeaturesConfig struct {
	Style
	Title    Text          `json:"title"`
	Subtitle Text          `json:"subtitle"`
	Features []FeatureItem `json:"features"`
}

// Plan is a pricing tier.
type Plan struct {
	Name        Text   `json:"name"`
	Price       Text   `json:"price"`
	Period      Text   `json:"period"`
	Description Text   `json:"description"`
	Features    []Text `json:"features"`
	Highlighted Flag   `json:"highlighted"`
	CTA         *CTA   `json:"cta,omitempty"`
}

// PricingConfig is a pricing table.
type PricingConfig struct {
	Style
	Title    Text   `json:"title"`
	Subtitle Text   `json:"subtitle"`
	Plans    []Plan `json:"plans"`
}

// Testimonial is a customer quote.
type Testimonial struct {
	Content Text `json:"content"`
	Name    Text `json:"name"`
	Role    Text `json:"role"`
	Image   Text `json:"image"`
}

// TestimonialsConfig is a list of quotes.
type TestimonialsConfig struct {
	Style
	Title        Text          `json:"title"`
	Subtitle     Text          `json:"subtitle"`
	Testimonials []Testimonial `json:"testimonials"`
}

// CTAConfig is a call-to-action band.
type CTAConfig struct {
	Style
	Title        Text `json:"title"`
	Description  Text `json:"description"`
	PrimaryCTA   *CTA `json:"primaryCTA,omitempty"`
	SecondaryCTA *CTA `json:"secondaryCTA,omitempty"`
}

// FooterColumn groups footer links.
type FooterColumn struct {
	Title Text   `json:"title"`
	Links []Link `json:"links"`
}

// FooterConfig is the page footer.
type FooterConfig struct {
	Style
	Logo      Text           `json:"logo"`
	Tagline   Text           `json:"tagline"`
	Columns   []FooterColumn `json:"columns"`
	Social    []SocialLink   `json:"social"`
	Copyright Text           `json:"copyright"`
}

// Stat is a headline number.
type Stat struct {
	Value Text `json:"value"`
	Label Text `json:"label"`
}

// StatsConfig is a row of numbers.
type StatsConfig struct {
	Style
	Title Text   `json:"title"`
	Stats []Stat `json:"stats"`
}

// Member is a team member card.
type Member struct {
	Name  Text `json:"name"`
	Role  Text `json:"role"`
	Image Text `json:"image"`
	Bio   Text `json:"bio"`
}

// TeamConfig lists team members.
type TeamConfig struct {
	Style
	Title    Text     `json:"title"`
	Subtitle Text     `json:"subtitle"`
	Members  []Member `json:"members"`
}

// FAQItem is a question with its answer.
type FAQItem struct {
	Question Text `json:"question"`
	Answer   Text `json:"answer"`
}

// FAQConfig is a list of questions.
type FAQConfig struct {
	Style
	Title    Text      `json:"title"`
	Subtitle Text      `json:"subtitle"`
	FAQs     []FAQItem `json:"faqs"`
}

// GalleryImage is one picture of a gallery.
type GalleryImage struct {
	URL     Text `json:"url"`
	Alt     Text `json:"alt"`
	Caption Text `json:"caption"`
}

// GalleryConfig is an image grid.
type GalleryConfig struct {
	Style
	Title  Text           `json:"title"`
	Images []GalleryImage `json:"images"`
}

// LogoItem is one brand logo.
type LogoItem struct {
	Name  Text `json:"name"`
	Image Text `json:"image"`
	Link  Text `json:"link"`
}

// LogoCloudConfig is a strip of logos.
type LogoCloudConfig struct {
	Style
	Title Text       `json:"title"`
	Logos []LogoItem `json:"logos"`
}

// FormField is an input of the contact form.
type FormField struct {
	Name        Text `json:"name"`
	Label       Text `json:"label"`
	Type        Text `json:"type"`
	Placeholder Text `json:"placeholder"`
	Required    Flag `json:"required"`
}

// ContactInfo holds direct contact details.
type ContactInfo struct {
	Email   Text `json:"email"`
	Phone   Text `json:"phone"`
	Address Text `json:"address"`
}

// ContactConfig is a contact form with details.
type ContactConfig struct {
	Style
	Title       Text         `json:"title"`
	Description Text         `json:"description"`
	Email       Text         `json:"email"`
	Phone       Text         `json:"phone"`
	Address     Text         `json:"address"`
	ContactInfo *ContactInfo `json:"contactInfo,omitempty"`
	Fields      []FormField  `json:"fields"`
	SubmitText  Text         `json:"submitText"`
	Action      Text         `json:"action"`
}

// ContentConfig is a free text section.
type ContentConfig struct {
	Style
	Title     Text `json:"title"`
	Content   Text `json:"content"`
	Format    Text `json:"format"` // text, markdown
	Image     Text `json:"image"`
	Alignment Text `json:"alignment"`
}

// NewsletterConfig is an email signup box.
type NewsletterConfig struct {
	Style
	Title       Text `json:"title"`
	Description Text `json:"description"`
	Placeholder Text `json:"placeholder"`
	ButtonText  Text `json:"buttonText"`
	Action      Text `json:"action"`
}

// VideoConfig embeds a video.
type VideoConfig struct {
	Style
	Title       Text `json:"title"`
	Description Text `json:"description"`
	VideoURL    Text `json:"videoUrl"`
	Poster      Text `json:"poster"`
}

// UnknownConfig carries a config whose type has no dedicated variant.
type UnknownConfig struct {
	Style
	Type ComponentType
	Raw  Config
}

func (HeaderConfig) ComponentType() ComponentType       { return TypeHeader }
func (HeroConfig) ComponentType() ComponentType         { return TypeHero }
func (FeaturesConfig) ComponentType() ComponentType     { return TypeFeatures }
func (PricingConfig) ComponentType() ComponentType      { return TypePricing }
func (TestimonialsConfig) ComponentType() ComponentType { return TypeTestimonials }
func (CTAConfig) ComponentType() ComponentType          { return TypeCTA }
func (FooterConfig) ComponentType() ComponentType       { return TypeFooter }
func (StatsConfig) ComponentType() ComponentType        { return TypeStats }
func (TeamConfig) ComponentType() ComponentType         { return TypeTeam }
func (FAQConfig) ComponentType() ComponentType          { return TypeFAQ }
func (GalleryConfig) ComponentType() ComponentType      { return TypeGallery }
func (LogoCloudConfig) ComponentType() ComponentType    { return TypeLogoCloud }
func (ContactConfig) ComponentType() ComponentType      { return TypeContact }
func (ContentConfig) ComponentType() ComponentType      { return TypeContent }
func (NewsletterConfig) ComponentType() ComponentType   { return TypeNewsletter }
func (VideoConfig) ComponentType() ComponentType        { return TypeVideo }
func (u UnknownConfig) ComponentType() ComponentType    { return u.Type }

// DecodeVariant converts a generic config into the typed variant for t.
// Missing fields decode to zero values and unknown fields are ignored. A
// field of the wrong shape is left at its zero value and a list keeps only
// the items that decode, so one bad value never costs the whole block. The
// error is non-nil only when cfg holds values JSON cannot represent.
func DecodeVariant(t ComponentType, cfg Config) (Variant, error) {
	if _, err := json.Marshal(cfg); err != nil {
		return nil, fmt.Errorf("encoding %s config: %w", t, err)
	}

	switch t {
	case TypeHeader:
		return decodeInto[HeaderConfig](cfg), nil
	case TypeHero:
		return decodeInto[HeroConfig](cfg), nil
	case TypeFeatures:
		return decodeInto[FeaturesConfig](cfg), nil
	case TypePricing:
		return decodeInto[PricingConfig](cfg), nil
	case TypeTestimonials:
		return decodeInto[TestimonialsConfig](cfg), nil
	case TypeCTA:
		return decodeInto[CTAConfig](cfg), nil
	case TypeFooter:
		return decodeInto[FooterConfig](cfg), nil
	case TypeStats:
		return decodeInto[StatsConfig](cfg), nil
	case TypeTeam:
		return decodeInto[TeamConfig](cfg), nil
	case TypeFAQ:
		return decodeInto[FAQConfig](cfg), nil
	case TypeGallery:
		return decodeInto[GalleryConfig](cfg), nil
	case TypeLogoCloud:
		return decodeInto[LogoCloudConfig](cfg), nil
	case TypeContact:
		return decodeInto[ContactConfig](cfg), nil
	case TypeContent:
		return decodeInto[ContentConfig](cfg), nil
	case TypeNewsletter:
		return decodeInto[NewsletterConfig](cfg), nil
	case TypeVideo:
		return decodeInto[VideoConfig](cfg), nil
	default:
		var s Style
		decodeStruct(cfg, reflect.ValueOf(&s).Elem())
		return UnknownConfig{Style: s, Type: t, Raw: cfg.Clone()}, nil
	}
}

func decodeInto[T Variant](cfg Config) Variant {
	var v T
	decodeStruct(cfg, reflect.ValueOf(&v).Elem())
	return v
}

// decodeStruct fills the struct dst from m one json-tagged field at a time.
// Embedded structs without a tag read from the same map.
func decodeStruct(m map[string]any, dst reflect.Value) {
	rt := dst.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if f.Anonymous && tag == "" && f.Type.Kind() == reflect.Struct {
			decodeStruct(m, dst.Field(i))
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		if v, ok := m[name]; ok && v != nil {
			decodeValue(v, dst.Field(i))
		}
	}
}

// decodeValue stores v into dst and reports whether it fit. Values that
// decode as a whole are taken as is; otherwise lists drop their bad items
// and objects keep their good fields.
func decodeValue(v any, dst reflect.Value) bool {
	if raw, err := json.Marshal(v); err == nil {
		ptr := reflect.New(dst.Type())
		if json.Unmarshal(raw, ptr.Interface()) == nil {
			dst.Set(ptr.Elem())
			return true
		}
	}

	switch dst.Kind() {
	case reflect.Slice:
		items, ok := v.([]any)
		if !ok {
			return false
		}
		out := reflect.MakeSlice(dst.Type(), 0, len(items))
		for _, item := range items {
			elem := reflect.New(dst.Type().Elem()).Elem()
			if item != nil && decodeValue(item, elem) {
				out = reflect.Append(out, elem)
			}
		}
		dst.Set(out)
		return true
	case reflect.Pointer:
		if dst.Type().Elem().Kind() != reflect.Struct {
			return false
		}
		m, ok := asMap(v)
		if !ok {
			return false
		}
		ptr := reflect.New(dst.Type().Elem())
		decodeStruct(m, ptr.Elem())
		dst.Set(ptr)
		return true
	case reflect.Struct:
		m, ok := asMap(v)
		if !ok {
			return false
		}
		decodeStruct(m, dst)
		return true
	}
	return false
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Config:
		return m, true
	}
	return nil, false
}
