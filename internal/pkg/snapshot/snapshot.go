package snapshot

import (
	"fmt"
	"time"

	"service/internal/entities"
)

// Snapshot - неизменяемый срез справочных данных (тайм-слоты, стоимость
// по диапазону количества вещей, шаблоны сообщений). Собирается один раз
// при загрузке и подменяется целиком при reload.
type Snapshot struct {
	slots      []TimeSlot
	slotIndex  map[string]int
	countCosts map[string]int
	templates  map[string]Template
}

// TimeSlot - окно забора/доставки. Start/End в формате "15:04".
type TimeSlot struct {
	Key       string
	Title     string
	StartTime string
	EndTime   string
}

type Template struct {
	Key   string
	Title string
	Body  string
}

func New(slots []TimeSlot, countCosts map[string]int, templates map[string]Template) *Snapshot {
	slotIndex := make(map[string]int, len(slots))
	for i, slot := range slots {
		slotIndex[slot.Key] = i
	}
	return &Snapshot{
		slots:      slots,
		slotIndex:  slotIndex,
		countCosts: countCosts,
		templates:  templates,
	}
}

func (s *Snapshot) TimeSlots() []TimeSlot {
	return s.slots
}

func (s *Snapshot) TimeSlot(key string) (TimeSlot, bool) {
	i, ok := s.slotIndex[key]
	if !ok {
		return TimeSlot{}, false
	}
	return s.slots[i], true
}

// NextTimeSlot возвращает следующий слот того же операционного дня.
// Для последнего слота дня второй результат false.
func (s *Snapshot) NextTimeSlot(key string) (TimeSlot, bool) {
	i, ok := s.slotIndex[key]
	if !ok || i+1 >= len(s.slots) {
		return TimeSlot{}, false
	}
	return s.slots[i+1], true
}

// CountRangeCost - стоимость заказа в единицах ёмкости по диапазону
// количества вещей (ведётся в справочнике, не из точного количества).
func (s *Snapshot) CountRangeCost(countRange string) (int, bool) {
	cost, ok := s.countCosts[countRange]
	return cost, ok
}

func (s *Snapshot) Template(key string) (Template, bool) {
	tpl, ok := s.templates[key]
	return tpl, ok
}

// SlotWindow материализует окно слота на конкретную дату.
func (s *Snapshot) SlotWindow(key string, date time.Time) (entities.PickupWindow, error) {
	slot, ok := s.TimeSlot(key)
	if !ok {
		return entities.PickupWindow{}, fmt.Errorf("unknown time slot %q", key)
	}

	start, err := combineDateAndClock(date, slot.StartTime)
	if err != nil {
		return entities.PickupWindow{}, fmt.Errorf("slot %q start: %w", key, err)
	}
	end, err := combineDateAndClock(date, slot.EndTime)
	if err != nil {
		return entities.PickupWindow{}, fmt.Errorf("slot %q end: %w", key, err)
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return entities.PickupWindow{Date: day, Start: start, End: end}, nil
}

func combineDateAndClock(date time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q: %w", clock, err)
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, date.Location(),
	), nil
}
