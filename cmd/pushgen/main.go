// pushgen publishes synthetic push payloads and token updates to the
// broker, for exercising callpushd without a real push provider.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

func main() {
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker URL")
	prefix := flag.String("prefix", "callpush", "Topic prefix")
	state := flag.String("state", "ringing", "Call state to announce (ringing|terminated)")
	callID := flag.String("id", "", "Call UUID (generated when empty)")
	callerID := flag.String("caller-id", "+15550001234", "Caller id")
	callerName := flag.String("caller-name", "Martin", "Caller display name")
	token := flag.String("token", "", "Publish a token update instead of a push")
	flag.Parse()

	if err := run(*broker, *prefix, *state, *callID, *callerID, *callerName, *token); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(broker, prefix, state, callID, callerID, callerName, token string) error {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("pushgen-" + uuid.NewString()[:8])

	client := mqtt.NewClient(opts)
	t := client.Connect()
	t.Wait()
	if err := t.Error(); err != nil {
		return fmt.Errorf("connecting to %s: %w", broker, err)
	}
	defer client.Disconnect(500)

	if token != "" {
		return publish(client, prefix+"/token", []byte(token))
	}

	if callID == "" {
		callID = uuid.NewString()
	}

	payload := map[string]any{
		"aps": map[string]any{
			"alert": map[string]any{
				"uuid":                 callID,
				"incoming_caller_id":   callerID,
				"incoming_caller_name": callerName,
				"incoming_call_state":  state,
			},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	fmt.Printf("publishing %s push for call %s\n", state, callID)
	return publish(client, prefix+"/push", data)
}

func publish(client mqtt.Client, topic string, payload []byte) error {
	t := client.Publish(topic, 1, false, payload)
	if !t.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return t.Error()
}
