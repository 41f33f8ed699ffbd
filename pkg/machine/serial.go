// Serial port transport for G-code delivery.
//
// Copyright (C) 2026  Toolchange Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package machine

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// ErrClosed is returned when writing to a closed serial port.
var ErrClosed = errors.New("machine: serial port closed")

// SerialConfig holds serial port settings.
type SerialConfig struct {
	// Device path (e.g. /dev/ttyUSB0, /dev/ttyACM0)
	Device string

	// Baud rate (default: 115200)
	Baud int
}

// SerialPort is a raw-mode 8N1 serial connection to the printer. It
// implements LineWriter.
type SerialPort struct {
	mu     sync.Mutex
	fd     int
	device string
	closed bool
}

// OpenSerial opens and configures a serial port.
func OpenSerial(cfg SerialConfig) (*SerialPort, error) {
	if cfg.Device == "" {
		return nil, errors.New("machine: serial device path required")
	}
	if cfg.Baud == 0 {
		cfg.Baud = 115200
	}

	speed, err := baudToSpeed(cfg.Baud)
	if err != nil {
		return nil, err
	}

	fd, err := unix.Open(cfg.Device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("machine: open %s: %w", cfg.Device, err)
	}

	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("machine: get termios: %w", err)
	}

	// Raw mode, 8N1, no flow control.
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.IXANY
	termios.Oflag &^= unix.OPOST
	termios.Cflag &^= unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB
	termios.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	setSpeed(termios, speed)
	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 1

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, termios); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("machine: set termios: %w", err)
	}
	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("machine: set blocking: %w", err)
	}

	return &SerialPort{fd: fd, device: cfg.Device}, nil
}

// WriteLine writes one G-code line with a trailing newline.
func (p *SerialPort) WriteLine(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	data := []byte(line + "\n")
	for len(data) > 0 {
		n, err := unix.Write(p.fd, data)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return fmt.Errorf("machine: write %s: %w", p.device, err)
		}
		data = data[n:]
	}
	return nil
}

// Close closes the port.
func (p *SerialPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return unix.Close(p.fd)
}

// baudToSpeed maps a baud rate to its termios speed constant.
func baudToSpeed(baud int) (uint32, error) {
	speeds := map[int]uint32{
		9600:   unix.B9600,
		19200:  unix.B19200,
		38400:  unix.B38400,
		57600:  unix.B57600,
		115200: unix.B115200,
		230400: unix.B230400,
	}
	if speed, ok := speeds[baud]; ok {
		return speed, nil
	}
	return 0, fmt.Errorf("machine: unsupported baud rate %d", baud)
}
