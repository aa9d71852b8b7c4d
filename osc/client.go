package osc

import (
	"bytes"
	"fmt"
	"net"
)

// Client sends OSC messages to one UDP destination.
type Client struct {
	conn *net.UDPConn
}

// Dial resolves addr and returns a Client sending to it.
func Dial(addr string) (*Client, error) {
	a, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	conn, err := net.DialUDP("udp", nil, a)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// RemoteAddr returns the destination address.
func (c *Client) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Send encodes msg and writes it as a single datagram.
func (c *Client) Send(msg *Message) error {
	data := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(data)
	data.Reset()

	if err := msg.LightMarshalBinary(data); err != nil {
		return err
	}

	if _, err := c.conn.Write(data.Bytes()); err != nil {
		return fmt.Errorf("osc: send %s to %s: %w", msg.Address, c.conn.RemoteAddr(), err)
	}
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
