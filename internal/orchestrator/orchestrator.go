// Package orchestrator composes the query pipeline: classification and
// entity extraction run concurrently, retrieval follows, and the
// result decides whether a hosted model call is warranted. External
// failures never propagate; the worst case is a templated local
// response with an explicit fallback marker.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/yatra/internal/budget"
	"github.com/fyrsmithlabs/yatra/internal/entities"
	"github.com/fyrsmithlabs/yatra/internal/intent"
	"github.com/fyrsmithlabs/yatra/internal/llm"
	"github.com/fyrsmithlabs/yatra/internal/recommend"
	"github.com/fyrsmithlabs/yatra/internal/retriever"
)

// FallbackMarker is appended to responses when the hosted model was
// wanted but unavailable.
const FallbackMarker = "(AI synthesis unavailable)"

// confidenceFloor is the classification confidence below which a query
// is judged too ambiguous for canned responses.
const confidenceFloor = 0.5

// complexEntityCount is the locations+dates+budgets count above which
// a query is judged too complex for canned responses.
const complexEntityCount = 3

// Request is one user query.
type Request struct {
	Text        string              `json:"text"`
	UserID      string              `json:"user_id,omitempty"`
	Preferences *budget.Preferences `json:"preferences,omitempty"`
}

// Response is the composed pipeline output. This is the sole contract
// the presentation and commerce layers depend on.
type Response struct {
	QueryID           string                     `json:"query_id"`
	Text              string                     `json:"text"`
	Intent            intent.Intent              `json:"intent"`
	Confidence        float64                    `json:"confidence"`
	Entities          entities.Set               `json:"entities"`
	Context           []retriever.Source         `json:"context"`
	Budget            *budget.Estimate           `json:"budget,omitempty"`
	Recommendations   *recommend.Recommendations `json:"recommendations,omitempty"`
	UsedExternalModel bool                       `json:"used_external_model"`
}

// ModelClient abstracts the hosted LLM call.
type ModelClient interface {
	Enabled() bool
	Generate(ctx context.Context, req llm.Request) (*llm.Result, error)
}

// WebSearcher abstracts optional web enrichment.
type WebSearcher interface {
	Sources(ctx context.Context, query string, limit int) []retriever.Source
	BudgetSignals(ctx context.Context, location string) []budget.Signal
}

// ContextRetriever abstracts retrieval so tests can force failures.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string) []retriever.Source
}

// Options wires the orchestrator's collaborators. Model and Web may be
// nil for local-only mode.
type Options struct {
	Classifier *intent.Classifier
	Extractor  *entities.Extractor
	Retriever  ContextRetriever
	Engine     *recommend.Engine
	Estimator  *budget.Estimator
	Model      ModelClient
	Web        WebSearcher
	Logger     *zap.Logger
}

// Orchestrator runs the pipeline for each query.
type Orchestrator struct {
	classifier *intent.Classifier
	extractor  *entities.Extractor
	retriever  ContextRetriever
	engine     *recommend.Engine
	estimator  *budget.Estimator
	model      ModelClient
	web        WebSearcher
	logger     *zap.Logger
}

// New creates an orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Classifier == nil {
		return nil, fmt.Errorf("orchestrator: classifier is required")
	}
	if opts.Extractor == nil {
		return nil, fmt.Errorf("orchestrator: extractor is required")
	}
	if opts.Retriever == nil {
		return nil, fmt.Errorf("orchestrator: retriever is required")
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("orchestrator: recommendation engine is required")
	}
	if opts.Estimator == nil {
		return nil, fmt.Errorf("orchestrator: budget estimator is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		classifier: opts.Classifier,
		extractor:  opts.Extractor,
		retriever:  opts.Retriever,
		engine:     opts.Engine,
		estimator:  opts.Estimator,
		model:      opts.Model,
		web:        opts.Web,
		logger:     logger,
	}, nil
}

// ProcessQuery runs the full pipeline. It never returns an error to
// the caller: malformed input degrades to a general_chat response and
// collaborator failures degrade to local synthesis.
func (o *Orchestrator) ProcessQuery(ctx context.Context, req Request) Response {
	queryID := uuid.NewString()
	text := strings.TrimSpace(req.Text)

	var cls intent.Result
	var ents entities.Set

	// Classification and extraction are pure and independent; run them
	// concurrently per query.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		cls = o.classifier.Classify(text)
		return nil
	})
	g.Go(func() error {
		ents = o.extractor.Extract(text)
		return nil
	})
	_ = g.Wait()

	sources := o.retriever.Retrieve(ctx, text)

	resp := Response{
		QueryID:    queryID,
		Intent:     cls.Intent,
		Confidence: cls.Confidence,
		Entities:   ents,
		Context:    sources,
	}

	o.logger.Debug("query classified",
		zap.String("query_id", queryID),
		zap.String("intent", string(cls.Intent)),
		zap.Float64("confidence", cls.Confidence),
		zap.Int("entities", ents.Count()),
		zap.Int("context", len(sources)))

	// Booking intents short-circuit to guide matching without any
	// external calls.
	if cls.Intent == intent.BookGuide || cls.Intent == intent.BookingQuery {
		resp.Text = o.bookingResponse(cls.Intent, ents)
		return resp
	}

	if cls.Intent == intent.GetRecommendations || (cls.Confidence < confidenceFloor && req.UserID != "") {
		recs := o.engine.Recommend(req.UserID, 5)
		resp.Recommendations = &recs
	}

	if (cls.Intent == intent.BudgetQuestion || cls.Intent == intent.PlanItinerary) && req.Preferences != nil {
		est := o.estimator.Estimate(*req.Preferences)
		if o.web != nil && len(ents.Locations) > 0 {
			est.Signals = append(est.Signals, o.web.BudgetSignals(ctx, ents.Locations[0])...)
		}
		resp.Budget = &est
	}

	if o.shouldUseModel(cls, ents) && o.model != nil && o.model.Enabled() {
		var webCtx []retriever.Source
		if o.web != nil {
			webCtx = o.web.Sources(ctx, text, 3)
		}
		res, err := o.model.Generate(ctx, llm.Request{
			Prompt:     text,
			Context:    sources,
			WebContext: webCtx,
			Budget:     resp.Budget,
		})
		if err != nil || res == nil {
			o.logger.Warn("model call failed, synthesizing locally",
				zap.String("query_id", queryID),
				zap.Error(err))
			resp.Text = o.synthesize(cls, ents, resp) + " " + FallbackMarker
			return resp
		}
		resp.Text = res.Text
		resp.UsedExternalModel = true
		if res.BudgetOverride != nil {
			resp.Budget = res.BudgetOverride
		}
		return resp
	}

	resp.Text = o.synthesize(cls, ents, resp)
	return resp
}

// shouldUseModel decides whether local signals suffice.
func (o *Orchestrator) shouldUseModel(cls intent.Result, ents entities.Set) bool {
	switch cls.Intent {
	case intent.PlanItinerary, intent.CulturalInfo, intent.GeneralChat:
		return true
	}
	if cls.Confidence < confidenceFloor {
		return true
	}
	return len(ents.Locations)+len(ents.Dates)+len(ents.Budgets) > complexEntityCount
}

// bookingResponse matches guides against the query entities.
func (o *Orchestrator) bookingResponse(in intent.Intent, ents entities.Set) string {
	if in == intent.BookingQuery {
		return "You can review, change, or cancel your reservation from the bookings page. Tell me the booking ID if you want details on a specific trip."
	}

	guides := o.engine.Recommend("", 3).Guides
	matched := guides
	if len(ents.Interests) > 0 {
		var filtered []recommend.ScoredItem
		for _, g := range guides {
			text := strings.ToLower(g.Item.SearchText())
			for _, interest := range ents.Interests {
				if strings.Contains(text, strings.ToLower(interest)) {
					filtered = append(filtered, g)
					break
				}
			}
		}
		if len(filtered) > 0 {
			matched = filtered
		}
	}

	if len(matched) == 0 {
		return "No guides are available right now. Try again later or browse destinations instead."
	}

	var b strings.Builder
	b.WriteString("Here are guides you can book:")
	for _, g := range matched {
		fmt.Fprintf(&b, " %s (%s, ₹%.0f/day, rated %.1f);",
			g.Item.Name, strings.Join(g.Item.Specialties, "/"), g.Item.PricePerDay, g.Item.Rating)
	}
	return strings.TrimSuffix(b.String(), ";") + "."
}

// synthesize builds a templated response from local signals only.
func (o *Orchestrator) synthesize(cls intent.Result, ents entities.Set, resp Response) string {
	var b strings.Builder

	switch cls.Intent {
	case intent.PlanItinerary:
		b.WriteString("Here is a starting point for your trip")
		writePlace(&b, ents)
		b.WriteString(".")
	case intent.FindHeritage:
		b.WriteString("These heritage places match your question")
		writePlace(&b, ents)
		b.WriteString(".")
	case intent.BudgetQuestion:
		b.WriteString("Here is a cost outline for your trip.")
	case intent.CulturalInfo:
		b.WriteString("Here is what I found")
		writePlace(&b, ents)
		b.WriteString(".")
	case intent.Marketplace:
		b.WriteString("Local artisans and souvenir collections are listed in the marketplace.")
	case intent.Transport:
		b.WriteString("Here are travel options for your route.")
	case intent.GetRecommendations:
		b.WriteString("Here are picks you might like.")
	default:
		b.WriteString("Namaste! Ask me about destinations, itineraries, guides, or trip budgets.")
	}

	if resp.Budget != nil {
		fmt.Fprintf(&b, " Expect roughly ₹%.0f-₹%.0f (%s).", resp.Budget.Low, resp.Budget.High, resp.Budget.Basis)
	}
	if len(resp.Context) > 0 {
		names := make([]string, 0, 3)
		for i, s := range resp.Context {
			if i == 3 {
				break
			}
			names = append(names, s.Title)
		}
		fmt.Fprintf(&b, " Relevant: %s.", strings.Join(names, ", "))
	}
	if resp.Recommendations != nil && len(resp.Recommendations.Destinations) > 0 {
		fmt.Fprintf(&b, " Top pick: %s.", resp.Recommendations.Destinations[0].Item.Name)
	}
	return b.String()
}

func writePlace(b *strings.Builder, ents entities.Set) {
	if len(ents.Locations) > 0 {
		fmt.Fprintf(b, " around %s", ents.Locations[0])
	}
}
