package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/outreach/pkg/campaign"
	"github.com/alantheprice/outreach/pkg/types"
	"github.com/alantheprice/outreach/pkg/utils"
)

type fakeGenerator struct {
	reqs []*campaign.Request
	err  error
}

func (g *fakeGenerator) Generate(_ context.Context, _, _ string, req *campaign.Request) (*types.Campaign, error) {
	g.reqs = append(g.reqs, req)
	return &types.Campaign{}, g.err
}

type fakeRegenerator struct {
	reqs   []*campaign.RegenerateRequest
	userID string
}

func (r *fakeRegenerator) Regenerate(_ context.Context, userID, _ string, req *campaign.RegenerateRequest) (*types.Step, error) {
	r.reqs = append(r.reqs, req)
	r.userID = userID
	return &types.Step{}, nil
}

type fakeDispatcher struct {
	jobs []Job
	err  error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, job Job) error {
	if d.err != nil {
		return d.err
	}
	d.jobs = append(d.jobs, job)
	return nil
}

func (d *fakeDispatcher) Close() error { return nil }

func TestHandle_Routing(t *testing.T) {
	gen := &fakeGenerator{}
	regen := &fakeRegenerator{}
	disp := &fakeDispatcher{}
	h := New(gen, regen, disp, nil)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, Job{UserID: "u", RegenerateSingle: true, Async: true,
		Body: json.RawMessage(`{"messageId": "m-step1", "body": "hi"}`)}))
	require.Len(t, regen.reqs, 1)
	assert.Equal(t, "m-step1", regen.reqs[0].MessageID)
	assert.Equal(t, "u", regen.userID)

	require.NoError(t, h.Handle(ctx, Job{UserID: "u", Async: true,
		Body: json.RawMessage(`{"messageId": "m", "selectedNumOfSteps": "4"}`)}))
	require.Len(t, gen.reqs, 1)
	assert.Equal(t, types.FlexInt(4), gen.reqs[0].SelectedNumOfSteps)

	require.NoError(t, h.Handle(ctx, Job{UserID: "u", Body: json.RawMessage(`{}`)}))
	require.Len(t, disp.jobs, 1)
	assert.True(t, disp.jobs[0].Async)
	assert.Len(t, gen.reqs, 1)
}

func TestHandle_BadBodies(t *testing.T) {
	h := New(&fakeGenerator{}, &fakeRegenerator{}, nil, nil)
	err := h.Handle(context.Background(), Job{UserID: "u", Async: true})
	assert.True(t, utils.IsValidationError(err))

	err = h.Handle(context.Background(), Job{UserID: "u", RegenerateSingle: true, Body: json.RawMessage(`[1,2`)})
	assert.True(t, utils.IsValidationError(err))
}

func TestHandle_GeneratorErrorPropagates(t *testing.T) {
	h := New(&fakeGenerator{err: errors.New("boom")}, nil, nil, nil)
	assert.EqualError(t, h.Handle(context.Background(), Job{Async: true, Body: json.RawMessage(`{}`)}), "boom")
}

func TestSubmit(t *testing.T) {
	disp := &fakeDispatcher{}
	h := New(nil, nil, disp, nil)

	ack, err := h.Submit(context.Background(), Job{UserID: "u", TeamID: "t", RegenerateSingle: true})
	require.NoError(t, err)
	assert.Equal(t, SuccessAck, ack)
	require.Len(t, disp.jobs, 1)
	assert.True(t, disp.jobs[0].Async)
	assert.True(t, disp.jobs[0].RegenerateSingle)

	_, err = h.Submit(context.Background(), Job{})
	assert.True(t, utils.IsAuthorizationError(err))

	disp.err = errors.New("queue full")
	_, err = h.Submit(context.Background(), Job{UserID: "u"})
	assert.ErrorContains(t, err, "queue full")

	_, err = New(nil, nil, nil, nil).Submit(context.Background(), Job{UserID: "u"})
	assert.True(t, utils.HasCategory(err, utils.CategoryConfiguration))
}

func TestSuccessAckShape(t *testing.T) {
	b, err := json.Marshal(SuccessAck)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"success"}`, string(b))
}
