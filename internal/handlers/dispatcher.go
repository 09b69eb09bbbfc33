package handlers

import "sync"

// ChatDispatcher выполняет обновления одного чата строго по очереди.
// Параллельная обработка сообщений одного пользователя ломает порядок
// шагов диалога: два сообщения подряд могут прочитать одну и ту же
// сессию и затереть шаги друг друга. Разные чаты обрабатываются
// параллельно.
type ChatDispatcher struct {
	mu     sync.Mutex
	queues map[int64]chan func()
}

func NewChatDispatcher() *ChatDispatcher {
	return &ChatDispatcher{queues: make(map[int64]chan func())}
}

// Dispatch ставит задачу в очередь чата. Для чата без активной очереди
// запускается воркер, который завершается после опустошения очереди.
func (d *ChatDispatcher) Dispatch(chatID int64, fn func()) {
	d.mu.Lock()
	q, ok := d.queues[chatID]
	if !ok {
		q = make(chan func(), 16)
		d.queues[chatID] = q
		go d.run(chatID, q)
	}
	q <- fn
	d.mu.Unlock()
}

func (d *ChatDispatcher) run(chatID int64, q chan func()) {
	for {
		select {
		case fn := <-q:
			fn()
		default:
			// Очередь пуста: воркер выходит под замком, чтобы Dispatch
			// не положил задачу в уже брошенный канал.
			d.mu.Lock()
			select {
			case fn := <-q:
				d.mu.Unlock()
				fn()
			default:
				delete(d.queues, chatID)
				d.mu.Unlock()
				return
			}
		}
	}
}
