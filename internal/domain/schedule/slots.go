package schedule

import (
	"fmt"
	"time"
)

// SlotStepMinutes é a granularidade fixa da agenda.
const SlotStepMinutes = 30

const statusCancelled = "cancelled"

// Reason explica um resultado vazio por regra de negócio (não é erro).
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonClosedDay   Reason = "closed_day"
	ReasonUnavailable Reason = "professional_unavailable"
)

// Settings são os horários gerais do estabelecimento.
type Settings struct {
	OpenTime  string
	CloseTime string
	OpenDays  []int // 0=domingo ... 6=sábado
}

// DayAvailability é a disponibilidade do profissional em um dia da semana.
type DayAvailability struct {
	Weekday   int
	StartTime string
	EndTime   string
	Available bool
}

// Visit é um agendamento existente no dia consultado.
type Visit struct {
	Start       time.Time
	DurationMin int
	Status      string
}

type SlotDetail struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	IsPast    bool   `json:"is_past"`
	Conflicts bool   `json:"conflicts"`
}

type Result struct {
	Slots   []string
	Details []SlotDetail
	Reason  Reason
}

// DaySlots calcula os horários livres de um profissional em uma data.
//
// A janela efetiva é a interseção entre o expediente do estabelecimento e a
// disponibilidade do profissional no dia da semana. Slots ocupados por
// agendamentos não cancelados e slots já passados (relevante apenas para o
// dia corrente) são excluídos. Função pura: mesmo resultado para as mesmas
// entradas e o mesmo now.
func DaySlots(
	date time.Time,
	settings Settings,
	availability []DayAvailability,
	visits []Visit,
	now time.Time,
) Result {

	weekday := int(date.Weekday())

	if !containsDay(settings.OpenDays, weekday) {
		return emptyResult(ReasonClosedDay)
	}

	day := dayAvailabilityFor(availability, weekday)
	if day == nil {
		return emptyResult(ReasonUnavailable)
	}

	openH, openM, ok := parseHM(settings.OpenTime)
	closeH, closeM, ok2 := parseHM(settings.CloseTime)
	if !ok || !ok2 {
		return emptyResult(ReasonClosedDay)
	}

	profStartH, profStartM, ok := parseHM(day.StartTime)
	profEndH, profEndM, ok2 := parseHM(day.EndTime)
	if !ok || !ok2 {
		return emptyResult(ReasonUnavailable)
	}

	// Início da janela: a hora mais tardia entre expediente e profissional.
	// O arredondamento para a próxima meia hora só considera os minutos
	// quando as horas coincidem (paridade com o comportamento existente).
	startH := profStartH
	if openH > startH {
		startH = openH
	}
	startM := 0
	if profStartH == openH {
		startM = profStartM
		if openM > startM {
			startM = openM
		}
		switch {
		case startM == 0:
			// já alinhado
		case startM <= SlotStepMinutes:
			startM = SlotStepMinutes
		default:
			startH++
			startM = 0
		}
	}

	// Fim da janela: espelhado, arredondando para a meia hora anterior.
	endH := profEndH
	if closeH < endH {
		endH = closeH
	}
	endM := 0
	if profEndH == closeH {
		endM = profEndM
		if closeM < endM {
			endM = closeM
		}
		if endM >= SlotStepMinutes {
			endM = SlotStepMinutes
		} else {
			endM = 0
		}
	}

	// Configuração invertida (fecha antes de abrir): falha fechado.
	if endH < startH || (endH == startH && endM < startM) {
		return emptyResult(ReasonClosedDay)
	}

	occupied := occupiedSlots(visits)

	slots := []string{}
	details := []SlotDetail{}

	for h, m := startH, startM; h < endH || (h == endH && m <= endM); h, m = advance(h, m) {
		label := formatHM(h, m)

		slotTime := time.Date(
			date.Year(), date.Month(), date.Day(),
			h, m, 0, 0,
			date.Location(),
		)

		_, conflicts := occupied[label]
		isPast := slotTime.Before(now)
		available := !conflicts && !isPast

		details = append(details, SlotDetail{
			Time:      label,
			Available: available,
			IsPast:    isPast,
			Conflicts: conflicts,
		})

		if available {
			slots = append(slots, label)
		}
	}

	return Result{Slots: slots, Details: details}
}

// occupiedSlots marca, em passos fixos de 30 minutos a partir do início de
// cada agendamento, todos os slots cujo início cai em [início, fim).
// Durações fora do múltiplo de 30 ainda ocupam o slot parcial final.
func occupiedSlots(visits []Visit) map[string]struct{} {
	occupied := make(map[string]struct{})

	for _, v := range visits {
		if v.Status == statusCancelled {
			continue
		}

		h := v.Start.Hour()
		m := v.Start.Minute()

		total := m + v.DurationMin
		endH := h + total/60
		endM := total % 60

		for h < endH || (h == endH && m < endM) {
			occupied[formatHM(h, m)] = struct{}{}
			h, m = advance(h, m)
		}
	}

	return occupied
}

func dayAvailabilityFor(availability []DayAvailability, weekday int) *DayAvailability {
	for i := range availability {
		if availability[i].Weekday == weekday && availability[i].Available {
			return &availability[i]
		}
	}
	return nil
}

func containsDay(days []int, weekday int) bool {
	for _, d := range days {
		if d == weekday {
			return true
		}
	}
	return false
}

func advance(h, m int) (int, int) {
	m += SlotStepMinutes
	if m >= 60 {
		m -= 60
		h++
	}
	return h, m
}

func parseHM(hm string) (int, int, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

func formatHM(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}

func emptyResult(reason Reason) Result {
	return Result{
		Slots:   []string{},
		Details: []SlotDetail{},
		Reason:  reason,
	}
}
