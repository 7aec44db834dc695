package kafka

import (
	"math/rand"
	"time"
)

// backoff — экспоненциальная пауза между повторами с equal-jitter.
// Не потокобезопасен: принадлежит одному циклу Run.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
	rnd     *rand.Rand
}

func newBackoff(initial, max time.Duration, rnd *rand.Rand) *backoff {
	return &backoff{initial: initial, max: max, current: initial, rnd: rnd}
}

// Next — пауза перед очередным повтором; следующий вызов вернёт вдвое больше (до max).
func (b *backoff) Next() time.Duration {
	d := b.jitter(b.current)
	b.current = min(b.current*2, b.max)
	return d
}

// Reset — после успешного чтения начинаем с initial.
func (b *backoff) Reset() { b.current = b.initial }

// Pause — короткая пауза после неудачной обработки сообщения.
func (b *backoff) Pause() time.Duration {
	return b.jitter(min(b.initial, 500*time.Millisecond))
}

// jitter — половина d фиксирована, вторая половина случайна: [d/2, d].
func (b *backoff) jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(b.rnd.Int63n(int64(d-half)+1))
}
