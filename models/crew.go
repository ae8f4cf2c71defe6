package models

import (
	"encoding/json"
	"errors"
)

type CrewRole string

const (
	RoleCentral        CrewRole = "central"
	RoleAssistant1     CrewRole = "assistant_1"
	RoleAssistant2     CrewRole = "assistant_2"
	RoleFourthOfficial CrewRole = "fourth_official"
	RoleAssessor       CrewRole = "assessor"
)

// CoreCrewRoles — обязательные роли бригады. Четвёртый судья и инспектор
// опциональны.
var CoreCrewRoles = []CrewRole{RoleCentral, RoleAssistant1, RoleAssistant2}

var ErrSlotAmbiguous = errors.New("crew slot must carry either a referee id or an external label, not both")

// SlotAssignee — значение одного слота бригады: либо ссылка на судью из
// справочника, либо внешняя текстовая метка (гостевой судья). Нулевое
// значение означает незанятый слот.
type SlotAssignee struct {
	refereeID int
	label     string
}

func RealReferee(id int) SlotAssignee {
	return SlotAssignee{refereeID: id}
}

func ExternalLabel(text string) SlotAssignee {
	return SlotAssignee{label: text}
}

func (s SlotAssignee) RefereeID() (int, bool) {
	return s.refereeID, s.refereeID != 0
}

func (s SlotAssignee) Label() (string, bool) {
	return s.label, s.refereeID == 0 && s.label != ""
}

func (s SlotAssignee) IsZero() bool {
	return s.refereeID == 0 && s.label == ""
}

type slotAssigneeJSON struct {
	RefereeID *int    `json:"referee_id,omitempty"`
	Name      *string `json:"name,omitempty"`
}

func (s SlotAssignee) MarshalJSON() ([]byte, error) {
	var aux slotAssigneeJSON
	if id, ok := s.RefereeID(); ok {
		aux.RefereeID = &id
	} else if name, ok := s.Label(); ok {
		aux.Name = &name
	}
	return json.Marshal(aux)
}

func (s *SlotAssignee) UnmarshalJSON(data []byte) error {
	*s = SlotAssignee{}
	if string(data) == "null" {
		return nil
	}
	var aux slotAssigneeJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.RefereeID != nil && aux.Name != nil {
		return ErrSlotAmbiguous
	}
	if aux.RefereeID != nil && *aux.RefereeID != 0 {
		s.refereeID = *aux.RefereeID
	} else if aux.Name != nil {
		s.label = *aux.Name
	}
	return nil
}

// OptionalSlot различает три состояния опционального слота в заявке:
// поле отсутствует (Present=false, хранимое значение не трогаем), поле
// равно null/пустому объекту (Present=true, слот очищается) и поле с
// значением (Present=true, слот заменяется).
type OptionalSlot struct {
	Present bool
	Value   SlotAssignee
}

func (o OptionalSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

func (o *OptionalSlot) UnmarshalJSON(data []byte) error {
	o.Present = true
	return json.Unmarshal(data, &o.Value)
}

// CrewProposal — предлагаемая бригада на матч, как её подаёт вызывающая
// сторона (форма или батч-подтверждение).
type CrewProposal struct {
	Central        SlotAssignee `json:"central"`
	Assistant1     SlotAssignee `json:"assistant_1"`
	Assistant2     SlotAssignee `json:"assistant_2"`
	FourthOfficial OptionalSlot `json:"fourth_official"`
	Assessor       OptionalSlot `json:"assessor"`
}

// CoreSlots возвращает три обязательных слота в фиксированном порядке ролей.
func (p *CrewProposal) CoreSlots() map[CrewRole]SlotAssignee {
	return map[CrewRole]SlotAssignee{
		RoleCentral:    p.Central,
		RoleAssistant1: p.Assistant1,
		RoleAssistant2: p.Assistant2,
	}
}

// CoreRefereeIDs — идентификаторы реальных судей среди трёх основных ролей,
// в порядке central, assistant_1, assistant_2. Внешние метки пропускаются.
func (p *CrewProposal) CoreRefereeIDs() []int {
	ids := make([]int, 0, 3)
	for _, slot := range []SlotAssignee{p.Central, p.Assistant1, p.Assistant2} {
		if id, ok := slot.RefereeID(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// AllRefereeIDs — идентификаторы реальных судей по всем пяти слотам заявки
// (для проверки занятости в тот же день).
func (p *CrewProposal) AllRefereeIDs() []int {
	ids := p.CoreRefereeIDs()
	if p.FourthOfficial.Present {
		if id, ok := p.FourthOfficial.Value.RefereeID(); ok {
			ids = append(ids, id)
		}
	}
	if p.Assessor.Present {
		if id, ok := p.Assessor.Value.RefereeID(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
