package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotAssigneeJSON(t *testing.T) {
	t.Run("real referee", func(t *testing.T) {
		var slot SlotAssignee
		require.NoError(t, json.Unmarshal([]byte(`{"referee_id": 7}`), &slot))
		id, ok := slot.RefereeID()
		require.True(t, ok)
		assert.Equal(t, 7, id)
		_, ok = slot.Label()
		assert.False(t, ok)
	})

	t.Run("external label", func(t *testing.T) {
		var slot SlotAssignee
		require.NoError(t, json.Unmarshal([]byte(`{"name": "Guest Referee"}`), &slot))
		label, ok := slot.Label()
		require.True(t, ok)
		assert.Equal(t, "Guest Referee", label)
		_, ok = slot.RefereeID()
		assert.False(t, ok)
	})

	t.Run("both fields rejected", func(t *testing.T) {
		var slot SlotAssignee
		err := json.Unmarshal([]byte(`{"referee_id": 7, "name": "Guest"}`), &slot)
		assert.ErrorIs(t, err, ErrSlotAmbiguous)
	})

	t.Run("null and empty object are zero", func(t *testing.T) {
		var slot SlotAssignee
		require.NoError(t, json.Unmarshal([]byte(`null`), &slot))
		assert.True(t, slot.IsZero())

		require.NoError(t, json.Unmarshal([]byte(`{}`), &slot))
		assert.True(t, slot.IsZero())
	})

	t.Run("round trip", func(t *testing.T) {
		for _, slot := range []SlotAssignee{RealReferee(12), ExternalLabel("Invitee")} {
			data, err := json.Marshal(slot)
			require.NoError(t, err)
			var back SlotAssignee
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, slot, back)
		}
	})
}

func TestOptionalSlotPresence(t *testing.T) {
	// Отсутствие поля, явный null и значение — три разных состояния.
	var proposal CrewProposal
	body := `{
		"central": {"referee_id": 1},
		"assistant_1": {"referee_id": 2},
		"assistant_2": {"referee_id": 3},
		"fourth_official": null
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &proposal))

	assert.True(t, proposal.FourthOfficial.Present)
	assert.True(t, proposal.FourthOfficial.Value.IsZero())
	assert.False(t, proposal.Assessor.Present)

	body = `{
		"central": {"referee_id": 1},
		"assistant_1": {"referee_id": 2},
		"assistant_2": {"referee_id": 3},
		"assessor": {"referee_id": 9}
	}`
	proposal = CrewProposal{}
	require.NoError(t, json.Unmarshal([]byte(body), &proposal))
	require.True(t, proposal.Assessor.Present)
	id, ok := proposal.Assessor.Value.RefereeID()
	require.True(t, ok)
	assert.Equal(t, 9, id)
}

func TestCrewProposalRefereeIDs(t *testing.T) {
	proposal := CrewProposal{
		Central:    RealReferee(1),
		Assistant1: ExternalLabel("Guest"),
		Assistant2: RealReferee(3),
		FourthOfficial: OptionalSlot{
			Present: true,
			Value:   RealReferee(4),
		},
		Assessor: OptionalSlot{Present: true}, // очистка, не судья
	}

	assert.Equal(t, []int{1, 3}, proposal.CoreRefereeIDs())
	assert.Equal(t, []int{1, 3, 4}, proposal.AllRefereeIDs())
}

func TestMatchRoleOf(t *testing.T) {
	central, fourth := 5, 9
	label := "Guest"
	m := &Match{
		RefereeID:        &central,
		Assistant1Label:  &label,
		FourthOfficialID: &fourth,
	}

	role, ok := m.RoleOf(5)
	require.True(t, ok)
	assert.Equal(t, RoleCentral, role)

	role, ok = m.RoleOf(9)
	require.True(t, ok)
	assert.Equal(t, RoleFourthOfficial, role)

	_, ok = m.RoleOf(77)
	assert.False(t, ok)

	slot := m.Slot(RoleAssistant1)
	got, ok := slot.Label()
	require.True(t, ok)
	assert.Equal(t, "Guest", got)
	assert.True(t, m.Slot(RoleAssessor).IsZero())
}
