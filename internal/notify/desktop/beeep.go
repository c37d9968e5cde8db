package desktop

import "github.com/gen2brain/beeep"

type beeepSender struct {
	icon string
}

// NewBeeepSender returns a Sender backed by the system notification
// daemon.
func NewBeeepSender(icon string) Sender {
	return beeepSender{icon: icon}
}

func (s beeepSender) Send(title, body string) error {
	return beeep.Notify(title, body, s.icon)
}
