// Package lifecycle runs the multi-step workflows over the gateway: create,
// update and preview-then-confirm delete. Each workflow instance is strictly
// sequential and is not safe for concurrent use.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/featureflags"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
	"github.com/aryan0dhankhar/allocdesk/internal/observability/metrics"
	"github.com/aryan0dhankhar/allocdesk/internal/observability/tracing"
	"github.com/aryan0dhankhar/allocdesk/internal/security/audit"
)

// IDResolver is the authoritative name lookup run before every write.
type IDResolver interface {
	ResolveID(ctx context.Context, kind domain.Kind, name string) (int64, error)
}

// NameDirectory is the advisory employee-name list.
type NameDirectory interface {
	Contains(ctx context.Context, name string) (bool, error)
	Invalidate(ctx context.Context)
}

// Deps are the collaborators shared by every workflow.
type Deps struct {
	API       gateway.Invoker
	Resolver  IDResolver
	Directory NameDirectory
	Session   domain.Session
	Flags     featureflags.Set
	Audit     *audit.Logger
	Logger    *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func (d Deps) actor() string {
	if d.Session.Email != "" {
		return d.Session.Email
	}
	return d.Session.Name
}

// Decision is the user's answer to a confirmation prompt.
type Decision int

const (
	Cancel Decision = iota
	Confirm
)

// ErrNotAwaitingConfirmation is returned when a destructive call is attempted
// without a pending prompt.
var ErrNotAwaitingConfirmation = errors.New("no deletion is awaiting confirmation")

// Failure is a workflow step that ended without a write. Error returns the
// text to show the user; Unwrap exposes the typed cause.
type Failure struct {
	Workflow string
	Step     string
	Reason   string
	Err      error
}

func (f *Failure) Error() string { return f.Reason }

func (f *Failure) Unwrap() error { return f.Err }

// Reason extracts the user-facing text of any workflow error.
func Reason(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	return apperror.Message(err, "")
}

// step runs fn inside a span named workflow.name.
func step(ctx context.Context, workflow, name string, fn func(ctx context.Context) error) error {
	ctx, span := tracing.StartStep(ctx, workflow, name)
	err := fn(ctx)
	tracing.EndStep(span, err)
	return err
}

// fail converts err into a Failure, counting and logging it once.
func (d Deps) fail(workflow, stepName string, err error, fallback string) error {
	var already *Failure
	if errors.As(err, &already) {
		return err
	}
	outcome := string(apperror.KindOf(err))
	if outcome == "" {
		outcome = "error"
	}
	metrics.ObserveWorkflow(workflow, outcome)
	reason := apperror.Message(err, fallback)
	d.logger().Info("workflow step failed",
		slog.String("workflow", workflow),
		slog.String("step", stepName),
		slog.String("outcome", outcome),
		slog.String("reason", reason),
	)
	return &Failure{Workflow: workflow, Step: stepName, Reason: reason, Err: err}
}

func (d Deps) succeed(workflow string) {
	metrics.ObserveWorkflow(workflow, "success")
}

// resolveAll resolves each reference in order and stops at the first failure.
func (d Deps) resolveAll(ctx context.Context, refs ...ref) (map[domain.Kind]int64, error) {
	ids := make(map[domain.Kind]int64, len(refs))
	for _, r := range refs {
		id, err := d.Resolver.ResolveID(ctx, r.kind, r.name)
		if err != nil {
			return nil, err
		}
		ids[r.kind] = id
	}
	return ids, nil
}

type ref struct {
	kind domain.Kind
	name string
}
