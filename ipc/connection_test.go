package ipc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestConnectionServe(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	c := NewConnection(server)
	c.Handle(TypeHello, func(env Envelope) error {
		var msg HelloMessage
		if err := env.Decode(&msg); err != nil {
			return err
		}
		return c.Send(TypeAck, AckMessage{Status: "ok", Agents: len(msg.Ships)})
	})
	c.Handle(TypeEvent, func(Envelope) error { return errors.New("handler failure") })

	done := make(chan error, 1)
	go func() { done <- c.Serve(context.Background()) }()

	send := func(msgType string, data any) {
		t.Helper()
		env, err := NewEnvelope(msgType, data)
		if err != nil {
			t.Fatal(err)
		}
		if err := WriteEnvelope(client, env); err != nil {
			t.Fatal(err)
		}
	}

	// unknown types and failing handlers do not end the session
	send("mystery", nil)
	send(TypeEvent, EventMessage{Ship: 1, Name: "x"})
	send(TypeHello, HelloMessage{Simulator: "test", Ships: []ShipState{{ID: 1}, {ID: 2}}})

	reply, err := ReadEnvelope(client)
	if err != nil {
		t.Fatalf("ReadEnvelope: %v", err)
	}
	var ack AckMessage
	if err := reply.Decode(&ack); err != nil {
		t.Fatal(err)
	}
	if reply.Type != TypeAck || ack.Agents != 2 {
		t.Errorf("reply = %s %+v, want ack with 2 agents", reply.Type, ack)
	}

	client.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve after peer hangup = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after peer hangup")
	}
}

func TestConnectionServeCancel(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewConnection(server).Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve after cancel = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestConnectionServeMalformedFrame(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	done := make(chan error, 1)
	go func() { done <- NewConnection(server).Serve(context.Background()) }()

	if _, err := client.Write([]byte{0, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-done:
		if err == nil {
			t.Error("expected an error for a zero-length frame")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after a malformed frame")
	}
}
