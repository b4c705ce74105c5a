package explorer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
)

func records(prefix string, n int) []boxes.RawRecord {
	out := make([]boxes.RawRecord, n)
	for i := range out {
		out[i] = boxes.RawRecord{BoxID: fmt.Sprintf("%s-%d", prefix, i)}
	}
	return out
}

func collect(t *testing.T, seq func(func(boxes.RawRecord, error) bool)) ([]string, error) {
	t.Helper()
	var ids []string
	for rec, err := range seq {
		if err != nil {
			return ids, err
		}
		ids = append(ids, rec.BoxID)
	}
	return ids, nil
}

func TestPaginateWalksAllPages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	g := NewMockGateway(ctrl)
	gomock.InOrder(
		g.EXPECT().GetUnspentByAddress(gomock.Any(), "addr", 0, 2).Return(&Page{Items: records("a", 2), Total: 5}, nil),
		g.EXPECT().GetUnspentByAddress(gomock.Any(), "addr", 2, 2).Return(&Page{Items: records("b", 2), Total: 5}, nil),
		g.EXPECT().GetUnspentByAddress(gomock.Any(), "addr", 4, 2).Return(&Page{Items: records("c", 1), Total: 5}, nil),
	)

	ids, err := collect(t, Paginate(context.Background(), ByAddress(g, "addr"), 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"a-0", "a-1", "b-0", "b-1", "c-0"}, ids)
}

func TestPaginateIsLazy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	g := NewMockGateway(ctrl)
	g.EXPECT().GetUnspentByTokenID(gomock.Any(), "tok", 0, 2).Return(&Page{Items: records("a", 2), Total: 100}, nil).Times(1)

	for rec, err := range Paginate(context.Background(), ByTokenID(g, "tok"), 2) {
		require.NoError(t, err)
		assert.Equal(t, "a-0", rec.BoxID)
		break
	}
}

func TestPaginateRestartsFromScratch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	g := NewMockGateway(ctrl)
	g.EXPECT().GetUnspentByAddress(gomock.Any(), "addr", 0, 10).Return(&Page{Items: records("a", 3), Total: 3}, nil).Times(2)

	seq := Paginate(context.Background(), ByAddress(g, "addr"), 10)
	first, err := collect(t, seq)
	require.NoError(t, err)
	second, err := collect(t, seq)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPaginateYieldsErrorOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	g := NewMockGateway(ctrl)
	gomock.InOrder(
		g.EXPECT().GetUnspentByAddress(gomock.Any(), "addr", 0, 1).Return(&Page{Items: records("a", 1), Total: 3}, nil),
		g.EXPECT().GetUnspentByAddress(gomock.Any(), "addr", 1, 1).Return(nil, errors.Transport("explorer", fmt.Errorf("timeout"))),
	)

	ids, err := collect(t, Paginate(context.Background(), ByAddress(g, "addr"), 1))
	assert.Equal(t, []string{"a-0"}, ids)
	assert.ErrorIs(t, err, errors.ErrTransport)
}

func TestPaginateStopsOnCancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	g := NewMockGateway(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := collect(t, Paginate(ctx, ByAddress(g, "addr"), 10))
	assert.ErrorIs(t, err, context.Canceled)
}
