package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

var (
	// Categories are the product categories used for generated data.
	Categories = []string{
		"Electronics", "Clothing", "Home & Garden", "Sports & Outdoors",
		"Books", "Toys & Games", "Health & Beauty", "Automotive",
		"Food & Beverages", "Pet Supplies", "Office Supplies", "Jewelry",
	}

	// Brands are the brand names used for generated data.
	Brands = []string{
		"TechCorp", "StyleBrand", "HomeEssentials", "SportMax", "BookWorld",
		"GameZone", "BeautyPlus", "AutoPro", "FreshFoods", "PetCare",
		"OfficePro", "JewelryLux", "Generic", "Premium", "Budget",
	}

	// Tags is the pool product tags are drawn from.
	Tags = []string{
		"new", "sale", "popular", "featured", "bestseller", "limited",
		"eco-friendly", "premium", "budget", "trending", "vintage",
		"modern", "classic", "innovative", "durable", "lightweight",
	}
)

// ratings skew towards the top of the scale like real shop reviews.
var (
	ratingValues  = []float64{1.0, 2.0, 3.0, 4.0, 4.5, 5.0}
	ratingWeights = []int{1, 2, 5, 15, 25, 52}
)

var (
	words = []string{
		"aurora", "summit", "harbor", "falcon", "ember", "willow", "nova",
		"cobalt", "atlas", "breeze", "cedar", "delta", "echo", "granite",
		"horizon", "ivory", "juniper", "lumen", "meadow", "orbit", "pioneer",
		"quartz", "ridge", "sierra", "timber", "vertex", "zephyr",
	}
	adjectives = []string{
		"Advanced", "Compact", "Essential", "Deluxe", "Classic", "Portable",
		"Ergonomic", "Reliable", "Versatile", "Sleek", "Rugged", "Smart",
	}
	nouns = []string{
		"Kit", "Set", "Collection", "Organizer", "Bundle", "Edition",
		"Series", "Pack", "Station", "Essentials",
	}
	authors = []string{
		"A. Rivera", "M. Chen", "J. Okafor", "L. Novak", "S. Patel",
		"K. Lindqvist", "R. Haddad", "T. Moreau", "E. Kowalski", "D. Tanaka",
	}
	phrases = []string{
		"Built for everyday use", "Designed with attention to detail",
		"Made from carefully selected materials", "Tested for durability",
		"A favourite among regular customers", "Easy to set up and maintain",
		"Combines comfort with performance", "Ships in recyclable packaging",
		"Backed by a two year warranty", "Suitable for beginners and experts",
	}
)

// Generator produces synthetic but plausible products. A Generator is not
// safe for concurrent use.
type Generator struct {
	rng  *rand.Rand
	now  time.Time
	skus map[string]struct{}
}

// NewGenerator returns a generator whose output is fully determined by seed
// and now.
func NewGenerator(seed uint64, now time.Time) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:  now.UTC().Truncate(time.Millisecond),
		skus: make(map[string]struct{}),
	}
}

// Products returns n generated products.
func (g *Generator) Products(n int) []catalog.Product {
	out := make([]catalog.Product, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Product())
	}
	return out
}

// Product returns one generated product. SKUs are unique for the lifetime
// of the generator. Creation times are spread over the past year.
func (g *Generator) Product() catalog.Product {
	category := pick(g.rng, Categories)
	rating := ratingValues[weighted(g.rng, ratingWeights)]
	reviews := int(g.rng.Float64() * 10000 * rating / 5)
	stock := g.rng.IntN(1001)

	in := catalog.ProductInput{
		Name:         g.name(category),
		Description:  g.description(),
		Price:        math.Round((5.99+g.rng.Float64()*(9999.99-5.99))*100) / 100,
		Category:     category,
		Stock:        &stock,
		SKU:          g.sku(category),
		Brand:        ptr(pick(g.rng, Brands)),
		Rating:       &rating,
		ReviewsCount: &reviews,
		Tags:         sample(g.rng, Tags, 2+g.rng.IntN(4)),
	}

	age := time.Duration(g.rng.Int64N(int64(365 * 24 * time.Hour)))
	return catalog.NewProduct(in, g.now.Add(-age).Truncate(time.Millisecond))
}

func (g *Generator) name(category string) string {
	w := pick(g.rng, words)
	word := strings.ToUpper(w[:1]) + w[1:]
	switch category {
	case "Electronics":
		return fmt.Sprintf("%s %s %s", word,
			pick(g.rng, []string{"Smart", "Pro", "Ultra", "Max", "Mini"}),
			pick(g.rng, []string{"Device", "Gadget", "Tool", "System"}))
	case "Clothing":
		return fmt.Sprintf("%s %s", word,
			pick(g.rng, []string{"T-Shirt", "Jeans", "Jacket", "Dress", "Shoes"}))
	case "Books":
		return fmt.Sprintf("The %s %s - %s", pick(g.rng, adjectives), word, pick(g.rng, authors))
	default:
		return fmt.Sprintf("%s %s %s", pick(g.rng, adjectives), word, pick(g.rng, nouns))
	}
}

func (g *Generator) description() string {
	parts := sample(g.rng, phrases, 2+g.rng.IntN(3))
	return strings.Join(parts, ". ") + "."
}

// sku returns CAT-####-XXX where CAT is the category prefix.
func (g *Generator) sku(category string) string {
	prefix := strings.ToUpper(category[:3])
	for {
		var letters [3]byte
		for i := range letters {
			letters[i] = byte('A' + g.rng.IntN(26))
		}
		sku := fmt.Sprintf("%s-%04d-%s", prefix, g.rng.IntN(10000), letters[:])
		if _, taken := g.skus[sku]; !taken {
			g.skus[sku] = struct{}{}
			return sku
		}
	}
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

// sample returns n distinct items in random order.
func sample[T any](rng *rand.Rand, items []T, n int) []T {
	idx := rng.Perm(len(items))[:n]
	out := make([]T, n)
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}

func weighted(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r := rng.IntN(total)
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}

func ptr[T any](v T) *T { return &v }
