package mocks

import (
	"sync"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/cerc-io/xcm-emulator/pkg/types"
)

//go:generate mockgen -destination=gen_runtime.go -package=mocks -mock_names=Router=MockgenRouter github.com/cerc-io/xcm-emulator/pkg/runtime Runtime,Router

// Router just caches routed messages but wraps a gomock instance, so we can mock validation if needed
type Router struct {
	*MockgenRouter
	sync.RWMutex

	Messages []types.NetworkMessage
}

// NewRouter returns a mock router that accepts every message
func NewRouter(t *testing.T) *Router {
	ctl := gomock.NewController(t)
	r := &Router{MockgenRouter: NewMockgenRouter(ctl)}
	r.EXPECT().Validate(gomock.Any()).Return(nil).AnyTimes()
	return r
}

func (r *Router) Route(msg types.NetworkMessage) error {
	if err := r.Validate(msg); err != nil {
		return err
	}
	r.Lock()
	defer r.Unlock()
	r.Messages = append(r.Messages, msg)
	return nil
}

// Sent returns a copy of the routed messages
func (r *Router) Sent() []types.NetworkMessage {
	r.RLock()
	defer r.RUnlock()
	return append([]types.NetworkMessage(nil), r.Messages...)
}

// RejectingRouter fails validation of every message addressed to a blocked destination
type RejectingRouter struct {
	*Router

	Blocked types.ParaId
	Err     error
}

func (r *RejectingRouter) Validate(msg types.NetworkMessage) error {
	if msg.Dest == r.Blocked {
		return r.Err
	}
	return nil
}

func (r *RejectingRouter) Route(msg types.NetworkMessage) error {
	if err := r.Validate(msg); err != nil {
		return err
	}
	return r.Router.Route(msg)
}
