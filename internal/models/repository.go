package models

// Feature describes one feature known to a feature repository
type Feature struct {
	Name       string
	Visibility string // public, protected, private, install
	Kind       string // ga, beta, noship, test
}

// FeatureRepository looks up feature metadata by symbolic name
type FeatureRepository interface {
	Lookup(name string) (Feature, bool)
}

// Repository is an in-memory FeatureRepository that keeps features in load order
type Repository struct {
	features *OrderedMap[string, Feature]
}

// NewRepository creates an empty repository
func NewRepository() *Repository {
	return &Repository{
		features: NewOrderedMap[string, Feature](),
	}
}

// Add registers a feature, replacing any feature with the same name
func (r *Repository) Add(f Feature) {
	r.features.Set(f.Name, f)
}

// Lookup returns the feature with the given name
func (r *Repository) Lookup(name string) (Feature, bool) {
	return r.features.Get(name)
}

// Features returns all features in load order
func (r *Repository) Features() []Feature {
	out := make([]Feature, 0, r.features.Len())
	r.features.Range(func(_ string, f Feature) bool {
		out = append(out, f)
		return true
	})
	return out
}

// Len returns the number of features
func (r *Repository) Len() int {
	return r.features.Len()
}
