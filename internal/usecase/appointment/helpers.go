package appointment

import (
	"github.com/rishangit/s-ams-sub002/internal/httperr"
	"github.com/rishangit/s-ams-sub002/internal/metrics"
)

// persistErr keeps business answers from the collaborator as they are and
// wraps anything else as a persist failure.
func persistErr(m *metrics.WorkflowMetrics, op string, err error) error {
	if _, ok := httperr.BusinessCode(err); ok {
		return err
	}
	m.ObservePersistFailure(op)
	return httperr.Persist(op, err)
}
