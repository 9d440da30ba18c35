package filter

import (
	"encoding/json"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"go.uber.org/zap"
)

// Query keys shared with every link into the shop.
const (
	KeyPage       = "page"
	KeySortBy     = "sortBy"
	KeySortOrder  = "sortOrder"
	KeyCategory   = "category"
	KeyMinPrice   = "minPrice"
	KeyMaxPrice   = "maxPrice"
	KeySizes      = "sizes"
	KeyColors     = "colors"
	KeyBrandIDs   = "brandIds"
	KeyProductIDs = "products_ids"
)

// FilterKeys are every key the codec owns.
var FilterKeys = []string{
	KeyPage, KeySortBy, KeySortOrder, KeyCategory, KeyMinPrice, KeyMaxPrice,
	KeySizes, KeyColors, KeyBrandIDs, KeyProductIDs,
}

// rawQuery is the URL as written, before any field is interpreted.
type rawQuery struct {
	Page       string   `schema:"page,omitempty"`
	SortBy     string   `schema:"sortBy,omitempty"`
	SortOrder  string   `schema:"sortOrder,omitempty"`
	Category   []string `schema:"category,omitempty"`
	MinPrice   string   `schema:"minPrice,omitempty"`
	MaxPrice   string   `schema:"maxPrice,omitempty"`
	Sizes      string   `schema:"sizes,omitempty"`
	Colors     string   `schema:"colors,omitempty"`
	BrandIDs   string   `schema:"brandIds,omitempty"`
	ProductIDs string   `schema:"products_ids,omitempty"`
}

// Codec converts between State and URL query parameters. Bounds, when known,
// clamp decoded prices and let Encode drop a range that covers them.
type Codec struct {
	bounds  *PriceBounds
	decoder *schema.Decoder
	encoder *schema.Encoder
}

func NewCodec(bounds *PriceBounds) *Codec {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	c := &Codec{
		decoder: dec,
		encoder: schema.NewEncoder(),
	}
	if bounds != nil {
		b := *bounds
		c.bounds = &b
	}
	return c
}

var defaultCodec = NewCodec(nil)

// Encode serializes s with a codec that knows no price bounds.
func Encode(s State) url.Values { return defaultCodec.Encode(s) }

// Decode parses v with a codec that knows no price bounds.
func Decode(v url.Values) State { return defaultCodec.Decode(v) }

// Bounds returns the price bounds the codec clamps against, if any.
func (c *Codec) Bounds() *PriceBounds {
	if c.bounds == nil {
		return nil
	}
	b := *c.bounds
	return &b
}

func (c *Codec) Encode(s State) url.Values {
	s = s.Normalize()

	raw := rawQuery{
		SortBy:    string(s.SortBy),
		SortOrder: string(s.SortOrder),
		Category:  s.CategoryIDs,
	}
	if s.Page > 0 && !s.Explicit() {
		raw.Page = strconv.Itoa(s.Page)
	}
	if price := c.encodablePrice(s.Price); price != nil {
		raw.MinPrice = formatPrice(price.Min)
		raw.MaxPrice = formatPrice(price.Max)
	}
	raw.Sizes = jsonList(sizeTokens(s.Sizes))
	raw.Colors = jsonList(colorTokens(s.Colors))
	raw.BrandIDs = jsonList(s.BrandIDs)
	raw.ProductIDs = productIDList(s.ProductIDs)

	out := url.Values{}
	if err := c.encoder.Encode(raw, out); err != nil {
		// rawQuery holds only strings; the encoder cannot reject it.
		logger.L().Error("failed to encode filter query", zap.Error(err))
	}
	return out
}

func (c *Codec) EncodeQuery(s State) string {
	return c.Encode(s).Encode()
}

// Decode never fails: a key that cannot be interpreted is treated as absent
// and reported at warn level.
func (c *Codec) Decode(v url.Values) State {
	log := logger.L().With(zap.String("component", "url_codec"))

	var raw rawQuery
	if err := c.decoder.Decode(&raw, v); err != nil {
		log.Warn("query parameters partially decoded", zap.Error(err))
	}

	var s State

	if raw.Page != "" {
		page, err := strconv.Atoi(strings.TrimSpace(raw.Page))
		if err != nil || page < 1 {
			log.Warn("ignoring invalid page", zap.String("value", raw.Page))
		} else {
			s.Page = page
		}
	}

	if raw.SortBy != "" {
		if f, ok := parseSortField(raw.SortBy); ok {
			s.SortBy = f
		} else {
			log.Warn("ignoring unknown sortBy", zap.String("value", raw.SortBy))
		}
	}

	if raw.SortOrder != "" {
		if o := SortOrder(strings.ToLower(strings.TrimSpace(raw.SortOrder))); o.Valid() {
			s.SortOrder = o
		} else {
			log.Warn("ignoring unknown sortOrder", zap.String("value", raw.SortOrder))
		}
	}

	for _, id := range raw.Category {
		if id = strings.TrimSpace(id); id != "" && !slices.Contains(s.CategoryIDs, id) {
			s.CategoryIDs = append(s.CategoryIDs, id)
		}
	}

	s.Price = c.decodePrice(log, raw.MinPrice, raw.MaxPrice)

	if tokens, ok := decodeList(log, KeySizes, raw.Sizes); ok {
		sizes, rejected := toSizes(tokens)
		if len(rejected) > 0 {
			log.Debug("dropped unknown sizes", zap.Strings("values", rejected))
		}
		s.Sizes = sizes
	}

	if tokens, ok := decodeList(log, KeyColors, raw.Colors); ok {
		colors, rejected := toColors(tokens)
		if len(rejected) > 0 {
			log.Debug("dropped unknown colors", zap.Strings("values", rejected))
		}
		s.Colors = colors
	}

	if tokens, ok := decodeList(log, KeyBrandIDs, raw.BrandIDs); ok {
		s.BrandIDs = uniqueStrings(tokens)
	}

	if tokens, ok := decodeList(log, KeyProductIDs, raw.ProductIDs); ok {
		s.ProductIDs = uniqueStrings(tokens)
	}

	return s.Normalize()
}

// DecodeQuery parses a raw query string. Malformed pairs are skipped.
func (c *Codec) DecodeQuery(rawQuery string) State {
	v, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		logger.L().Warn("malformed query string", zap.String("query", rawQuery), zap.Error(err))
	}
	return c.Decode(v)
}

func (c *Codec) encodablePrice(r *PriceRange) *PriceRange {
	if r == nil {
		return nil
	}
	return EffectivePrice(r, c.bounds)
}

func (c *Codec) decodePrice(log *zap.Logger, minRaw, maxRaw string) *PriceRange {
	if minRaw == "" && maxRaw == "" {
		return nil
	}

	minVal, minOK := parsePrice(minRaw)
	maxVal, maxOK := parsePrice(maxRaw)
	if minRaw != "" && !minOK {
		log.Warn("ignoring invalid minPrice", zap.String("value", minRaw))
	}
	if maxRaw != "" && !maxOK {
		log.Warn("ignoring invalid maxPrice", zap.String("value", maxRaw))
	}

	// A lone bound is completed from the observed bounds; without them the
	// range cannot be known and is dropped.
	if !minOK || !maxOK {
		if c.bounds == nil || (!minOK && !maxOK) {
			return nil
		}
		if !minOK {
			minVal = c.bounds.Min
		}
		if !maxOK {
			maxVal = c.bounds.Max
		}
	}

	r := PriceRange{Min: minVal, Max: maxVal}
	if !r.Valid() {
		log.Warn("ignoring inverted price range",
			zap.Float64("min", r.Min),
			zap.Float64("max", r.Max),
		)
		return nil
	}
	if c.bounds == nil {
		return &r
	}
	clamped := ClampPrice(&r, *c.bounds)
	if clamped == nil {
		log.Debug("price range outside observed bounds, using full range",
			zap.Float64("min", r.Min),
			zap.Float64("max", r.Max),
		)
	}
	return clamped
}

func decodeList(log *zap.Logger, key, raw string) ([]string, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	items, enc, err := parseList(raw)
	if err != nil {
		log.Warn("ignoring unparseable list", zap.String("key", key), zap.String("value", raw), zap.Error(err))
		return nil, false
	}
	if enc != encodingJSONArray {
		log.Debug("list decoded from fallback encoding", zap.String("key", key), zap.String("encoding", string(enc)))
	}
	if len(items) == 0 {
		return nil, false
	}
	return items, true
}

func parseSortField(raw string) (SortField, bool) {
	v := strings.TrimSpace(raw)
	for _, f := range []SortField{SortFieldName, SortFieldPrice, SortFieldCreatedAt} {
		if strings.EqualFold(string(f), v) {
			return f, true
		}
	}
	return "", false
}

func parsePrice(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// productIDList prefers the bare comma list and falls back to the JSON array
// form when an id itself contains a comma.
func productIDList(ids []string) string {
	if slices.ContainsFunc(ids, func(id string) bool { return strings.Contains(id, ",") }) {
		return jsonList(ids)
	}
	return strings.Join(ids, ",")
}

func jsonList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	b, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return string(b)
}
