package audit

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	ActionStatusChanged    = "appointment_status_changed"
	ActionStaffAssigned    = "appointment_staff_assigned"
	ActionDeleted          = "appointment_deleted"
	ActionCompletionCreate = "completion_record_created"
	ActionCompletionUpdate = "completion_record_updated"
)

type Event struct {
	CompanyID uint
	UserID    *uint
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
}

// Sink persists a single audit event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher writes audit events off the request path. A full queue drops the
// event; auditing never fails a request.
type Dispatcher struct {
	sink  Sink
	log   logrus.FieldLogger
	queue chan Event
	wg    sync.WaitGroup
	once  sync.Once
}

func NewDispatcher(sink Sink, log logrus.FieldLogger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			d.log.WithError(err).WithField("action", ev.Action).Error("audit write failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.WithField("action", ev.Action).Warn("audit queue full, dropping event")
	}
}

// Close drains queued events and stops the worker.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}
