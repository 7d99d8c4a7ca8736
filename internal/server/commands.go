package server

import (
	"fmt"

	"simplechat/internal/command"
	ncerr "simplechat/internal/errors"
)

func (s *Server) registerCommands() {
	s.commands.Handle("#quit", s.cmdQuit)
	s.commands.Handle("#stop", s.cmdStop)
	s.commands.Handle("#close", s.cmdClose)
	s.commands.Handle("#setport", s.cmdSetPort)
	s.commands.Handle("#start", s.cmdStart)
	s.commands.Handle("#getport", s.cmdGetPort)
}

func (s *Server) cmdQuit(command.Command) error {
	s.Shutdown()
	s.display.Display(msgShutdown)
	s.quit()
	return nil
}

func (s *Server) cmdStop(command.Command) error {
	return s.StopListening()
}

func (s *Server) cmdClose(command.Command) error {
	s.Close()
	s.display.Display(msgClosed)
	return nil
}

func (s *Server) cmdSetPort(cmd command.Command) error {
	port, err := cmd.PortArg()
	if err != nil {
		return err
	}
	if s.IsListening() {
		return ncerr.Command(cmd.Name, msgPortWhileBound)
	}
	s.mu.Lock()
	s.port = port
	s.mu.Unlock()
	s.display.Display(fmt.Sprintf("Port has been set to: %d", port))
	return nil
}

func (s *Server) cmdStart(cmd command.Command) error {
	if s.IsListening() {
		return ncerr.ErrAlreadyListening
	}
	if err := s.Listen(); err != nil {
		s.log.Error("listen: %v", err)
		s.metrics.RecordError(err.Error())
		return ncerr.Command(cmd.Name, msgListenFailed)
	}
	s.display.Display(msgStarted)
	return nil
}

func (s *Server) cmdGetPort(command.Command) error {
	s.display.Display(fmt.Sprintf("Current port: %d", s.Port()))
	return nil
}
