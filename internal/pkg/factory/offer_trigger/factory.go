package offer_trigger

import "time"

// TriggerTimeFactory вычисляет время срабатывания offer-ов: ближние
// кандидаты получают предложение раньше дальних, delivery-маршрут ждёт
// батчевания, терминальный offer стреляет после всей лесенки.
type TriggerTimeFactory struct {
	staggerInterval    time.Duration
	deliveryOfferDelay time.Duration
	responseGrace      time.Duration
}

func New(staggerInterval, deliveryOfferDelay, responseGrace time.Duration) *TriggerTimeFactory {
	return &TriggerTimeFactory{
		staggerInterval:    staggerInterval,
		deliveryOfferDelay: deliveryOfferDelay,
		responseGrace:      responseGrace,
	}
}

// StaggeredTrigger - время срабатывания для кандидата с порядковым рангом
// (0 - ближайший).
func (f *TriggerTimeFactory) StaggeredTrigger(base time.Time, rank int) time.Time {
	return base.Add(time.Duration(rank) * f.staggerInterval)
}

func (f *TriggerTimeFactory) DeliveryTrigger(base time.Time) time.Time {
	return base.Add(f.deliveryOfferDelay)
}

// NoProviderTrigger - время терминального offer-а "никто не взял заказ".
// Зависит от количества разосланных ступеней, а не от константы: каждая
// ступень должна успеть получить предложение и окно на ответ.
func (f *TriggerTimeFactory) NoProviderTrigger(base time.Time, staggeredCount int) time.Time {
	ladder := time.Duration(staggeredCount+1) * f.staggerInterval
	return base.Add(ladder + f.responseGrace)
}
