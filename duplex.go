package relay

// Foreground holds the ends of a Duplex owned by the foreground loop.
type Foreground[Req, Resp any] struct {
	Requests  *Sender[Req]
	Responses *Receiver[Resp]
}

// Close drops both foreground ends so the broker can observe closure and exit.
func (f Foreground[Req, Resp]) Close() {
	_ = f.Requests.Close()
	f.Responses.Close()
}

// Background holds the ends of a Duplex owned by the broker.
type Background[Req, Resp any] struct {
	Requests  *Receiver[Req]
	Responses *Sender[Resp]
}

// Close drops both background ends.
func (b Background[Req, Resp]) Close() {
	b.Requests.Close()
	_ = b.Responses.Close()
}

// NewDuplex creates the request and response channels between a foreground loop and a broker.
func NewDuplex[Req, Resp any]() (Foreground[Req, Resp], Background[Req, Resp]) {
	reqSender, reqReceiver := NewChannel[Req]()
	respSender, respReceiver := NewChannel[Resp]()

	fg := Foreground[Req, Resp]{
		Requests:  reqSender,
		Responses: respReceiver,
	}
	bg := Background[Req, Resp]{
		Requests:  reqReceiver,
		Responses: respSender,
	}
	return fg, bg
}
