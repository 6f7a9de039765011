package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

//go:embed properties.yaml
var defaultSeed []byte

type seedFile struct {
	Properties []seedProperty `yaml:"properties"`
}

type seedProperty struct {
	Title        string       `yaml:"title"`
	Description  string       `yaml:"description"`
	Address      *seedAddress `yaml:"address"`
	Price        *string      `yaml:"price"`
	Bedrooms     *int         `yaml:"bedrooms"`
	Bathrooms    *int         `yaml:"bathrooms"`
	SquareFeet   *int         `yaml:"square_feet"`
	PropertyType string       `yaml:"property_type"`
	Status       string       `yaml:"status"`
	Amenities    []string     `yaml:"amenities"`
	Images       []seedImage  `yaml:"images"`
	LandlordID   *int64       `yaml:"landlord_id"`
}

type seedAddress struct {
	Street    string   `yaml:"street"`
	City      string   `yaml:"city"`
	State     string   `yaml:"state"`
	ZipCode   string   `yaml:"zip_code"`
	Country   string   `yaml:"country"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
}

type seedImage struct {
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

// Loader наполняет хранилище стартовыми объявлениями
type Loader struct {
	storage port.PropertyStoragePort
	logger  port.LoggerPort
}

func NewLoader(storage port.PropertyStoragePort, logger port.LoggerPort) *Loader {
	return &Loader{storage: storage, logger: logger}
}

// LoadFile загружает объявления из YAML-файла; пустой путь - встроенный набор
func (l *Loader) LoadFile(ctx context.Context, path string) (int, error) {
	if path == "" {
		return l.Load(ctx, bytes.NewReader(defaultSeed))
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return l.Load(ctx, f)
}

// Load разбирает весь документ до сохранения, так что битый файл не оставляет частичный каталог
func (l *Loader) Load(ctx context.Context, r io.Reader) (int, error) {
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return 0, fmt.Errorf("decode seed yaml: %w", err)
	}

	properties := make([]domain.Property, 0, len(file.Properties))
	for i, sp := range file.Properties {
		p, err := sp.toDomain()
		if err != nil {
			return 0, fmt.Errorf("seed property #%d (%q): %w", i+1, sp.Title, err)
		}
		properties = append(properties, p)
	}

	for _, p := range properties {
		saved, err := l.storage.Save(ctx, p)
		if err != nil {
			return 0, fmt.Errorf("save seed property %q: %w", p.Title, err)
		}
		l.logger.Debug("Seed property stored", port.Fields{"property_id": saved.ID, "title": saved.Title})
	}

	l.logger.Info("Catalog seeded", port.Fields{"count": len(properties)})
	return len(properties), nil
}

func (sp seedProperty) toDomain() (domain.Property, error) {
	if sp.Title == "" {
		return domain.Property{}, fmt.Errorf("title is required")
	}
	propertyType, err := domain.ParsePropertyType(sp.PropertyType)
	if err != nil {
		return domain.Property{}, err
	}
	status, err := domain.ParsePropertyStatus(sp.Status)
	if err != nil {
		return domain.Property{}, err
	}

	p := domain.Property{
		Title:        sp.Title,
		Description:  sp.Description,
		Bedrooms:     sp.Bedrooms,
		Bathrooms:    sp.Bathrooms,
		SquareFeet:   sp.SquareFeet,
		PropertyType: propertyType,
		Status:       status,
		Amenities:    sp.Amenities,
		LandlordID:   sp.LandlordID,
	}
	if sp.Price != nil {
		price, err := decimal.NewFromString(*sp.Price)
		if err != nil {
			return domain.Property{}, fmt.Errorf("invalid price %q: %w", *sp.Price, err)
		}
		if price.IsNegative() {
			return domain.Property{}, fmt.Errorf("price must not be negative")
		}
		p.Price = &price
	}
	for _, img := range sp.Images {
		p.Images = append(p.Images, domain.PropertyImage{URL: img.URL, Description: img.Description})
	}
	if a := sp.Address; a != nil {
		p.Address = &domain.Address{
			Street:    a.Street,
			City:      a.City,
			State:     a.State,
			ZipCode:   a.ZipCode,
			Country:   a.Country,
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
		}
	}
	return p, nil
}
