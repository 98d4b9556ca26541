package strip

import (
	"codeberg.org/halvor/revstrip/internal/errors"
	"codeberg.org/halvor/revstrip/internal/logger"
	"go.bug.st/serial"
)

// SerialPort opens the USB serial bridge carrying the strip data and
// exposes it as the io.Writer the framing layer needs.
type SerialPort struct {
	port serial.Port
}

func OpenSerialPort(path string, baud int) (*SerialPort, error) {
	errFactory := errors.New()

	port, err := serial.Open(path, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, errFactory.Wrap(ErrPortOpen, err)
	}

	logger.Info().Str("port", path).Int("baud", baud).Msg("LED strip port open")

	return &SerialPort{port: port}, nil
}

func (p *SerialPort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *SerialPort) Close() error {
	return p.port.Close()
}
