package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopdesk/shopdesk-go/internal/logging"
	"github.com/shopdesk/shopdesk-go/internal/model"
)

const (
	maxGuardBody = 1 << 20 // 1MB, same as the handlers
	maxBulkIDs   = 500
)

var (
	ErrNoIdentity      = errors.New("no authenticated identity")
	ErrMissingArgument = errors.New("resource id argument missing")
	ErrTooManyIDs      = errors.New("too many resource ids")
	ErrNotOwner        = errors.New("resource not owned by caller")
	ErrAmbiguousArgs   = errors.New("argument given more than once")
)

type argsKey struct{}

// ArgsFromContext returns the arguments a Guard checked for this request.
// Handlers acting on guarded ids must take them from here rather than
// decoding the body again.
func ArgsFromContext(ctx context.Context) (Args, bool) {
	args, ok := ctx.Value(argsKey{}).(Args)
	return args, ok
}

// Args are the arguments of one operation. They are gathered from the route
// parameters, a JSON body (fields nested under "input" included) and the
// query string, in that order of precedence.
type Args map[string]any

// String returns the non-empty string argument name.
func (a Args) String(name string) (string, bool) {
	s, ok := a[name].(string)
	return s, ok && s != ""
}

// Strings returns the list argument name. Every element must be a non-empty string.
func (a Args) Strings(name string) ([]string, bool) {
	raw, ok := a[name].([]any)
	if !ok {
		return nil, false
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok || s == "" {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Check is one authorization predicate. A nil error allows the request.
type Check func(ctx context.Context, id Identity, args Args) error

// OwnerResolver maps resource ids to the user that owns them.
type OwnerResolver interface {
	OwnersOf(ctx context.Context, kind model.ResourceKind, ids []string) (map[string]string, error)
}

// Guard returns middleware that runs checks in order after Authenticate and
// rejects the request with 401 on the first denial. It fails closed: a
// missing identity is a denial.
func Guard(checks ...Check) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := logging.FromContext(r.Context())

			id, ok := IdentityFromContext(r.Context())
			if !ok {
				logger.Warn("guard denied", "reason", ErrNoIdentity)
				writeUnauthorized(w)
				return
			}

			args, err := collectArgs(r)
			if err != nil {
				logger.Warn("guard denied", "reason", err)
				writeUnauthorized(w)
				return
			}

			for _, check := range checks {
				if err := check(r.Context(), id, args); err != nil {
					logger.Warn("guard denied", "reason", err)
					writeUnauthorized(w)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), argsKey{}, args)))
		})
	}
}

// Owns checks that the caller owns the resource named by the first present
// argument in fields.
func Owns(resolver OwnerResolver, kind model.ResourceKind, fields ...string) Check {
	return func(ctx context.Context, id Identity, args Args) error {
		for _, f := range fields {
			if target, ok := args.String(f); ok {
				return requireOwner(ctx, resolver, kind, id, []string{target})
			}
		}
		return fmt.Errorf("%s: %w", kind, ErrMissingArgument)
	}
}

// OwnsAll checks that the caller owns every resource listed in field. One
// foreign or unknown id fails the whole batch.
func OwnsAll(resolver OwnerResolver, kind model.ResourceKind, field string) Check {
	return func(ctx context.Context, id Identity, args Args) error {
		ids, ok := args.Strings(field)
		if !ok || len(ids) == 0 {
			return fmt.Errorf("%s: %w", kind, ErrMissingArgument)
		}
		if len(ids) > maxBulkIDs {
			return fmt.Errorf("%s: %w", kind, ErrTooManyIDs)
		}
		return requireOwner(ctx, resolver, kind, id, ids)
	}
}

func OwnsStore(resolver OwnerResolver) Check {
	return Owns(resolver, model.KindStore, "storeId", "store_id", "id")
}

func OwnsProduct(resolver OwnerResolver) Check {
	return Owns(resolver, model.KindProduct, "productId", "product_id", "id")
}

func OwnsCollection(resolver OwnerResolver) Check {
	return Owns(resolver, model.KindCollection, "collectionId", "collection_id", "id")
}

func OwnsCustomer(resolver OwnerResolver) Check {
	return Owns(resolver, model.KindCustomer, "customerId", "customer_id", "id")
}

func OwnsOrder(resolver OwnerResolver) Check {
	return Owns(resolver, model.KindOrder, "orderId", "order_id", "id")
}

// OwnsAllProducts is the bulk variant used by batch product operations.
func OwnsAllProducts(resolver OwnerResolver) Check {
	return OwnsAll(resolver, model.KindProduct, "product_ids")
}

func requireOwner(ctx context.Context, resolver OwnerResolver, kind model.ResourceKind, id Identity, ids []string) error {
	owners, err := resolver.OwnersOf(ctx, kind, ids)
	if err != nil {
		return fmt.Errorf("resolving %s owners: %w", kind, err)
	}

	for _, rid := range ids {
		if owner, ok := owners[rid]; !ok || owner != id.UserID {
			return fmt.Errorf("%s %s: %w", kind, rid, ErrNotOwner)
		}
	}
	return nil
}

// collectArgs merges route parameters, the JSON body and the query string.
// The body is buffered and put back for the handler.
func collectArgs(r *http.Request) (Args, error) {
	args := Args{}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key == "*" || i >= len(rctx.URLParams.Values) {
				continue
			}
			args.setDefault(key, rctx.URLParams.Values[i])
		}
	}

	if r.Body != nil && r.Body != http.NoBody && isJSON(r) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxGuardBody+1))
		r.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
		if len(body) > maxGuardBody {
			return nil, errors.New("request body too large")
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var fields map[string]any
		if json.Unmarshal(body, &fields) == nil {
			input, _ := fields["input"].(map[string]any)
			if err := checkUnambiguous(input, fields); err != nil {
				return nil, err
			}
			for k, v := range input {
				args.setDefault(k, v)
			}
			for k, v := range fields {
				args.setDefault(k, v)
			}
		}
	}

	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			args.setDefault(k, v[0])
		}
	}

	return args, nil
}

// checkUnambiguous rejects bodies naming the same argument twice, either in
// both "input" and the top level or under keys that differ only in case.
// encoding/json matches struct fields case-insensitively, so such a body could
// be read one way here and another way by the handler.
func checkUnambiguous(objs ...map[string]any) error {
	seen := map[string]bool{}
	for _, obj := range objs {
		for k := range obj {
			if k == "input" {
				continue
			}
			folded := strings.ToLower(k)
			if seen[folded] {
				return fmt.Errorf("%q: %w", k, ErrAmbiguousArgs)
			}
			seen[folded] = true
		}
	}
	return nil
}

func (a Args) setDefault(key string, v any) {
	if _, ok := a[key]; !ok {
		a[key] = v
	}
}

func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return ct == "" || strings.HasPrefix(strings.ToLower(ct), "application/json")
}
