package services

import (
	"github.com/fyrsmithlabs/yatra/internal/budget"
	"github.com/fyrsmithlabs/yatra/internal/catalog"
	"github.com/fyrsmithlabs/yatra/internal/entities"
	"github.com/fyrsmithlabs/yatra/internal/intent"
	"github.com/fyrsmithlabs/yatra/internal/llm"
	"github.com/fyrsmithlabs/yatra/internal/recommend"
	"github.com/fyrsmithlabs/yatra/internal/retriever"
	"github.com/fyrsmithlabs/yatra/internal/vectorizer"
	"github.com/fyrsmithlabs/yatra/internal/websearch"
)

// Registry provides access to all yatra services.
// Use accessor methods to retrieve individual services.
type Registry interface {
	Catalog() *catalog.Catalog
	Vectorizer() *vectorizer.Vectorizer
	Classifier() *intent.Classifier
	Extractor() *entities.Extractor
	Retriever() *retriever.Retriever
	Engine() *recommend.Engine
	Estimator() *budget.Estimator
	Model() *llm.Client
	Web() *websearch.Client
}

// Options configures the registry with service instances.
type Options struct {
	Catalog    *catalog.Catalog
	Vectorizer *vectorizer.Vectorizer
	Classifier *intent.Classifier
	Extractor  *entities.Extractor
	Retriever  *retriever.Retriever
	Engine     *recommend.Engine
	Estimator  *budget.Estimator
	Model      *llm.Client
	Web        *websearch.Client
}

// registry is the concrete implementation of Registry.
type registry struct {
	catalog    *catalog.Catalog
	vectorizer *vectorizer.Vectorizer
	classifier *intent.Classifier
	extractor  *entities.Extractor
	retriever  *retriever.Retriever
	engine     *recommend.Engine
	estimator  *budget.Estimator
	model      *llm.Client
	web        *websearch.Client
}

// NewRegistry creates a new service registry.
func NewRegistry(opts Options) Registry {
	return &registry{
		catalog:    opts.Catalog,
		vectorizer: opts.Vectorizer,
		classifier: opts.Classifier,
		extractor:  opts.Extractor,
		retriever:  opts.Retriever,
		engine:     opts.Engine,
		estimator:  opts.Estimator,
		model:      opts.Model,
		web:        opts.Web,
	}
}

func (r *registry) Catalog() *catalog.Catalog          { return r.catalog }
func (r *registry) Vectorizer() *vectorizer.Vectorizer { return r.vectorizer }
func (r *registry) Classifier() *intent.Classifier     { return r.classifier }
func (r *registry) Extractor() *entities.Extractor     { return r.extractor }
func (r *registry) Retriever() *retriever.Retriever    { return r.retriever }
func (r *registry) Engine() *recommend.Engine          { return r.engine }
func (r *registry) Estimator() *budget.Estimator       { return r.estimator }
func (r *registry) Model() *llm.Client                 { return r.model }
func (r *registry) Web() *websearch.Client             { return r.web }
