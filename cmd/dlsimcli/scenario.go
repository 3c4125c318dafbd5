package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bassosimone/dlsim"
)

// scenarioEndpoint describes one endpoint entry in a scenario file.
type scenarioEndpoint struct {
	ID                string  `yaml:"id"`
	Protocol          string  `yaml:"protocol"`
	ErrorRate         float64 `yaml:"error_rate"`
	TransmissionDelay float64 `yaml:"transmission_delay"`
	WindowSize        int     `yaml:"window_size"`
}

// scenarioSend describes one send_data call in a scenario's submission
// script.
type scenarioSend struct {
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Payload string `yaml:"payload"`
}

// scenario is the YAML shape loaded by the "run" subcommand: a list of
// endpoints to register and a submission script to feed them, the textual
// equivalent of the original source's hard-coded per-protocol drivers.
type scenario struct {
	Endpoints []scenarioEndpoint `yaml:"endpoints"`
	Sends     []scenarioSend     `yaml:"sends"`
}

// loadScenario reads and parses the scenario file at path.
func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// register wires every endpoint in s into sim.
func (s *scenario) register(sim *dlsim.Simulator) error {
	for _, ep := range s.Endpoints {
		opts := dlsim.RegisterOptions{
			Protocol:          dlsim.ProtocolName(ep.Protocol),
			ErrorRate:         ep.ErrorRate,
			TransmissionDelay: ep.TransmissionDelay,
			WindowSize:        ep.WindowSize,
		}
		if err := sim.RegisterEndpoint(ep.ID, opts); err != nil {
			return fmt.Errorf("registering endpoint %q: %w", ep.ID, err)
		}
	}
	return nil
}

// submit issues every send in s's script against sim.
func (s *scenario) submit(sim *dlsim.Simulator) error {
	for _, send := range s.Sends {
		if ok := sim.SendData(send.From, send.To, send.Payload); !ok {
			return fmt.Errorf("send_data(%q, %q, ...): unknown endpoint", send.From, send.To)
		}
	}
	return nil
}
