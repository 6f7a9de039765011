package query

import (
	"strings"

	"catalog-service/internal/core/domain"

	"github.com/mmcloughlin/geohash"
	"golang.org/x/text/cases"
)

// Filter возвращает записи, удовлетворяющие всем заданным критериям (логическое И).
// Порядок исходной последовательности сохраняется.
func Filter(records []domain.Property, criteria domain.SearchCriteria) []domain.Property {
	m := newMatcher(criteria)
	out := make([]domain.Property, 0, len(records))
	for i := range records {
		if m.matches(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// matcher держит заранее нормализованные критерии.
// cases.Caser не потокобезопасен, поэтому у каждого вызова Filter свой экземпляр.
type matcher struct {
	c         domain.SearchCriteria
	fold      cases.Caser
	keyword   string
	city      string
	state     string
	amenities []string
	geoPrefix string
}

func newMatcher(c domain.SearchCriteria) *matcher {
	m := &matcher{c: c, fold: cases.Fold()}
	m.keyword = m.fold.String(strings.TrimSpace(c.Keyword))
	m.city = m.fold.String(strings.TrimSpace(c.City))
	m.state = m.fold.String(strings.TrimSpace(c.State))
	for _, a := range c.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			m.amenities = append(m.amenities, m.fold.String(a))
		}
	}
	m.geoPrefix = strings.ToLower(strings.TrimSpace(c.GeohashPrefix))
	return m
}

func (m *matcher) matches(p *domain.Property) bool {
	c := m.c

	if m.keyword != "" {
		if !strings.Contains(m.fold.String(p.Title), m.keyword) &&
			!strings.Contains(m.fold.String(p.Description), m.keyword) {
			return false
		}
	}

	if m.city != "" && (p.Address == nil || m.fold.String(p.Address.City) != m.city) {
		return false
	}
	if m.state != "" && (p.Address == nil || m.fold.String(p.Address.State) != m.state) {
		return false
	}

	if c.MinPrice != nil || c.MaxPrice != nil {
		if p.Price == nil {
			return false
		}
		if c.MinPrice != nil && p.Price.LessThan(*c.MinPrice) {
			return false
		}
		if c.MaxPrice != nil && p.Price.GreaterThan(*c.MaxPrice) {
			return false
		}
	}

	if !inRange(p.Bedrooms, c.MinBedrooms, c.MaxBedrooms) {
		return false
	}
	if !inRange(p.Bathrooms, c.MinBathrooms, nil) {
		return false
	}
	if !inRange(p.SquareFeet, c.MinSquareFeet, c.MaxSquareFeet) {
		return false
	}

	if c.PropertyType != nil && p.PropertyType != *c.PropertyType {
		return false
	}
	if c.Status != nil && p.Status != *c.Status {
		return false
	}

	if len(m.amenities) > 0 && !m.hasAllAmenities(p.Amenities) {
		return false
	}

	if m.geoPrefix != "" {
		if !p.Address.HasCoordinates() {
			return false
		}
		hash := geohash.Encode(*p.Address.Latitude, *p.Address.Longitude)
		if !strings.HasPrefix(hash, m.geoPrefix) {
			return false
		}
	}

	return true
}

func (m *matcher) hasAllAmenities(have []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, a := range have {
		set[m.fold.String(strings.TrimSpace(a))] = struct{}{}
	}
	for _, want := range m.amenities {
		if _, ok := set[want]; !ok {
			return false
		}
	}
	return true
}

// inRange - включительные границы; неизвестное значение не проходит, если задана хотя бы одна граница
func inRange(v, min, max *int) bool {
	if min == nil && max == nil {
		return true
	}
	if v == nil {
		return false
	}
	if min != nil && *v < *min {
		return false
	}
	if max != nil && *v > *max {
		return false
	}
	return true
}
