package reporter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"gqlcheck/client"
	"gqlcheck/query"
	"gqlcheck/schemaval"
	"gqlcheck/toolkit"
)

// Failure kinds recorded per case and aggregated in the summary.
const (
	FailureQueryNotFound   = "query_not_found"
	FailureInvalidQuery    = "invalid_query"
	FailureTransport       = "transport_error"
	FailureResponseParse   = "response_parse_error"
	FailureMalformed       = "malformed_envelope"
	FailureGraphQLErrors   = "graphql_errors"
	FailureEmptyData       = "empty_data"
	FailureSchemaNotFound  = "schema_not_found"
	FailureSchemaViolation = "schema_violation"
	FailureAuthentication  = "authentication_error"
	FailureRequest         = "request_error"
)

// Runner drives one test session: a health preflight, then every query file
// executed and asserted in sequence. One case's failure never stops the
// rest; only configuration and authentication errors abort the session.
type Runner struct {
	client    *client.Client
	loader    *query.Loader
	schemas   *schemaval.Validator
	cfg       toolkit.Config
	metrics   *Metrics
	observers []Observer
}

func NewRunner(c *client.Client, l *query.Loader, s *schemaval.Validator, cfg toolkit.Config, m *Metrics) *Runner {
	return &Runner{client: c, loader: l, schemas: s, cfg: cfg, metrics: m, observers: []Observer{m}}
}

// AddObserver registers an extra lifecycle observer alongside the metrics
// accumulator.
func (r *Runner) AddObserver(o Observer) {
	r.observers = append(r.observers, o)
}

// RunSession executes the whole suite and returns the assembled report.
// A non-nil error means the session aborted before or during the run.
func (r *Runner) RunSession(ctx context.Context) (toolkit.Report, error) {
	names, err := r.loader.List()
	if err != nil {
		return toolkit.Report{}, err
	}
	if len(names) == 0 {
		return toolkit.Report{}, fmt.Errorf("no .graphql query files found")
	}

	log.Printf("reporter.run: health preflight endpoint check")
	if err := r.client.Health(ctx); err != nil {
		return toolkit.Report{}, fmt.Errorf("api health check failed: %w", err)
	}

	for _, o := range r.observers {
		o.OnSessionStart(len(names))
	}

	var fatal error
	for _, name := range names {
		for _, o := range r.observers {
			o.OnTestStart(name)
		}
		res, abort := r.runOne(ctx, name)
		for _, o := range r.observers {
			o.OnTestEnd(res)
		}
		if abort != nil {
			fatal = abort
			break
		}
	}

	rep := r.metrics.Report()
	for _, o := range r.observers {
		o.OnSessionEnd(rep.Summary)
	}
	log.Printf("reporter.run: completed total=%d passed=%d failed=%d", rep.Summary.Total, rep.Summary.Passed, rep.Summary.Failed)
	return rep, fatal
}

// runOne executes and asserts a single query file. The second return value
// is non-nil only for errors that must abort the session.
func (r *Runner) runOne(ctx context.Context, name string) (toolkit.CaseResult, error) {
	cr := toolkit.CaseResult{Name: name, SchemaValidation: "n/a"}

	text, err := r.loader.Load(name)
	if err != nil {
		return failCase(cr, FailureQueryNotFound, "Query file could not be read.", err), nil
	}
	cr.Query = text

	// Boundary gate: an empty or unbalanced document never reaches the
	// network.
	if !query.StructurallyValid(text) {
		return failCase(cr, FailureInvalidQuery, "Query failed structural validation (empty, unknown leading keyword, or unbalanced braces).", errors.New("structurally invalid query document")), nil
	}

	res, err := r.client.Execute(ctx, text, nil)
	cr.Status = res.Status
	cr.LatencyMS = res.LatencyMS
	if err != nil {
		var authErr *client.AuthError
		if errors.As(err, &authErr) {
			// Nothing else can succeed without a token.
			return failCase(cr, FailureAuthentication, "Token acquisition failed; aborting session.", err), err
		}
		kind, why := classify(err)
		return failCase(cr, kind, why, err), nil
	}

	if failed, why := r.assertEnvelope(res.Envelope); failed != "" {
		return failCase(cr, failed, why, errors.New(why)), nil
	}

	return r.validateSchema(cr, res.Envelope), nil
}

// assertEnvelope applies the suite's assertion policy. ParseEnvelope already
// guarantees data-or-errors presence and non-empty messages; what remains is
// the policy choice: strict treats any GraphQL error as a failure and
// requires non-empty data, tolerant accepts errors as a valid outcome.
func (r *Runner) assertEnvelope(env client.Envelope) (string, string) {
	if r.cfg.ErrorPolicy == toolkit.ErrorPolicyTolerant {
		return "", ""
	}
	if env.HasErrors() {
		return FailureGraphQLErrors, "GraphQL errors returned: " + env.ErrorMessages()
	}
	if len(env.Data) == 0 {
		return FailureEmptyData, "Response data is empty; expected at least one field."
	}
	return "", ""
}

// validateSchema checks the envelope against a JSON Schema named after the
// query file, when one exists in the schema directory.
func (r *Runner) validateSchema(cr toolkit.CaseResult, env client.Envelope) toolkit.CaseResult {
	schemaName := strings.TrimSuffix(cr.Name, filepath.Ext(cr.Name))
	if !r.schemas.Has(schemaName) {
		cr.Passed = true
		return cr
	}
	cr.SchemaName = schemaName

	body := map[string]any{}
	if env.HasData() {
		body["data"] = env.Data
	}
	if env.HasErrors() {
		body["errors"] = env.Errors
	}

	ok, reason, err := r.schemas.Validate(body, schemaName)
	if err != nil {
		var nf *schemaval.NotFoundError
		if errors.As(err, &nf) {
			return failCase(cr, FailureSchemaNotFound, "Schema file disappeared before validation.", err)
		}
		return failCase(cr, FailureSchemaNotFound, "Schema could not be loaded.", err)
	}
	if !ok {
		cr.SchemaValidation = "fail"
		return failCase(cr, FailureSchemaViolation, "Response violated schema contract: "+reason, errors.New(reason))
	}

	cr.SchemaValidation = "pass"
	cr.Passed = true
	return cr
}

func classify(err error) (string, string) {
	var terr *client.TransportError
	if errors.As(err, &terr) {
		return FailureTransport, fmt.Sprintf("Unexpected HTTP status %d.", terr.Status)
	}
	var derr *client.DecodeError
	if errors.As(err, &derr) {
		return FailureResponseParse, "Response body is not valid JSON."
	}
	var eerr *client.EnvelopeError
	if errors.As(err, &eerr) {
		return FailureMalformed, "Response is JSON but not a well-formed GraphQL envelope: " + eerr.Reason
	}
	return FailureRequest, "Request did not complete successfully."
}

func failCase(cr toolkit.CaseResult, kind, why string, err error) toolkit.CaseResult {
	log.Printf("reporter.run_one: case failed name=%s kind=%s error=%v", cr.Name, kind, err)
	cr.Passed = false
	cr.Failure = kind
	cr.Why = why
	cr.Error = err.Error()
	return cr
}
