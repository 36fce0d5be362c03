package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPerHostLimiter_BurstWithinBudget(t *testing.T) {
	l := NewPerHostLimiter(10, time.Second, 5)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Wait(ctx, "cdn.example.com"))
	}
}

func TestPerHostLimiter_HostsAreIndependent(t *testing.T) {
	l := NewPerHostLimiter(1, time.Hour, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, l.Wait(ctx, "a.example.com"))
	require.NoError(t, l.Wait(ctx, "b.example.com"))
}
