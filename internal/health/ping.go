package health

import "context"

// HealthPinger is a component that can probe itself, such as a journal store
// running a trivial query. HealthPing returns nil while the component can
// serve requests.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
