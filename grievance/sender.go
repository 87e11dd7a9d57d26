package grievance

import "context"

type DeliveryStatus int

const (
	// DeliveryOK means the endpoint accepted the payload.
	DeliveryOK DeliveryStatus = iota
	// DeliveryTransportFailed means no response was obtained.
	DeliveryTransportFailed
	// DeliveryRejected means the endpoint answered with a non-2xx status or
	// with a 2xx body that is not JSON.
	DeliveryRejected
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryOK:
		return "ok"
	case DeliveryTransportFailed:
		return "transport_failed"
	case DeliveryRejected:
		return "rejected"
	}
	return "unknown"
}

// Delivery is the result of one send. StatusCode is 0 when the transport
// has no notion of status codes or nothing was received. Body holds the
// decoded JSON response when there was one.
type Delivery struct {
	Status     DeliveryStatus
	StatusCode int
	Body       any
	Err        error
}

func (d Delivery) OK() bool {
	return d.Status == DeliveryOK
}

// Sender transmits a payload exactly once.
type Sender interface {
	Send(ctx context.Context, p Payload) Delivery
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, p Payload) Delivery

func (f SenderFunc) Send(ctx context.Context, p Payload) Delivery {
	return f(ctx, p)
}
