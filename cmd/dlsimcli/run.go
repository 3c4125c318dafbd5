package main

import (
	"fmt"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/bassosimone/dlsim"
	"github.com/bassosimone/dlsim/internal/pcaprecorder"
)

func newRunCommand() *cobra.Command {
	var (
		scenarioPath string
		pcapPath     string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a YAML scenario and run it to completion with the tight driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(scenarioPath, pcapPath)
		},
	}
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to the scenario YAML file (required)")
	cmd.Flags().StringVar(&pcapPath, "pcap", "", "optional path to write a PCAP trace of the run")
	cmd.MarkFlagRequired("scenario")
	return cmd
}

func runScenario(scenarioPath, pcapPath string) error {
	s, err := loadScenario(scenarioPath)
	if err != nil {
		return err
	}

	sim := dlsim.NewSimulator(log.Log)

	if pcapPath != "" {
		rec, err := pcaprecorder.New(pcapPath, log.Log)
		if err != nil {
			return fmt.Errorf("opening pcap trace: %w", err)
		}
		defer rec.Close()
		sim.SetObserver(rec.Observer)
	}

	if err := s.register(sim); err != nil {
		return err
	}
	if err := s.submit(sim); err != nil {
		return err
	}

	sim.Start()

	for _, ep := range s.Endpoints {
		delivered := sim.Delivered(ep.ID)
		stats := sim.Stats(ep.ID)
		fmt.Printf("%s: delivered=%d sent=%d corrupted=%d retransmits=%d\n",
			ep.ID, len(delivered), stats.FramesSent, stats.FramesCorrupted, stats.Retransmits)
		for _, p := range delivered {
			fmt.Printf("  %s\n", p.Payload)
		}
	}
	return nil
}
