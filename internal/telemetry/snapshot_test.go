package telemetry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotEncodeOmitsBossWhenNil(t *testing.T) {
	snap := Snapshot{Frame: 1, Player: PlayerSnapshot{Lives: 2}}

	data, err := snap.encode()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	_, hasBoss := decoded["boss"]
	assert.False(t, hasBoss)
}

func TestSnapshotEncodeIncludesBossWhenPresent(t *testing.T) {
	snap := Snapshot{
		Frame: 1,
		Boss:  &BossSnapshot{Name: "stage-boss", HP: 500, AttackName: "attack-1"},
	}

	data, err := snap.encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "stage-boss")
	assert.Contains(t, string(data), "attack-1")
}
