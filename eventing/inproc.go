package eventing

import (
	"context"
	"errors"
	"sync"
)

type inprocMessage struct {
	data    []byte
	headers Headers
}

func (m *inprocMessage) Data() []byte {
	return m.data
}

func (m *inprocMessage) Headers() Headers {
	return m.headers
}

type inprocSubscription struct {
	client  *inprocClient
	subject string
	id      int
	cb      MessageCallback
}

func (s *inprocSubscription) Close() error {
	s.client.unsubscribe(s.subject, s.id)
	return nil
}

// inprocClient is a process-local Client. Delivery is synchronous on the
// publisher's goroutine, which keeps single-node deployments and tests
// deterministic. Callbacks must not publish to the same subject they are
// subscribed to or they will recurse.
type inprocClient struct {
	mutex  sync.RWMutex
	subs   map[string]map[int]*inprocSubscription
	nextID int
	closed bool
}

var _ Client = (*inprocClient)(nil)

var ErrClientClosed = errors.New("eventing: client is closed")

// NewInProcClient returns a Client that dispatches messages to subscribers
// within the same process.
func NewInProcClient() Client {
	return &inprocClient{
		subs: make(map[string]map[int]*inprocSubscription),
	}
}

func (c *inprocClient) Publish(ctx context.Context, subject string, data []byte, opts ...PublishOption) error {
	options := &publishOptions{}
	for _, opt := range opts {
		opt(options)
	}
	headers := make(Headers)
	for _, header := range options.Headers {
		if len(header) == 2 {
			headers[header[0]] = header[1]
		}
	}
	msg := &inprocMessage{data: data, headers: headers}

	c.mutex.RLock()
	if c.closed {
		c.mutex.RUnlock()
		return ErrClientClosed
	}
	targets := make([]*inprocSubscription, 0, len(c.subs[subject]))
	for _, sub := range c.subs[subject] {
		targets = append(targets, sub)
	}
	c.mutex.RUnlock()

	for _, sub := range targets {
		sub.cb(ctx, msg)
	}
	return nil
}

func (c *inprocClient) Subscribe(ctx context.Context, subject string, cb MessageCallback) (Subscriber, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return nil, ErrClientClosed
	}
	sub := &inprocSubscription{
		client:  c,
		subject: subject,
		id:      c.nextID,
		cb:      cb,
	}
	c.nextID++
	if c.subs[subject] == nil {
		c.subs[subject] = make(map[int]*inprocSubscription)
	}
	c.subs[subject][sub.id] = sub
	return sub, nil
}

func (c *inprocClient) unsubscribe(subject string, id int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if subs, ok := c.subs[subject]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(c.subs, subject)
		}
	}
}

func (c *inprocClient) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.closed = true
	c.subs = make(map[string]map[int]*inprocSubscription)
	return nil
}
