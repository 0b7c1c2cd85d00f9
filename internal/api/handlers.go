package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Guliveer/simhub/internal/device"
)

const msgInvalidBody = "invalid request body"

type lightRequest struct {
	Action     string  `json:"action"`
	Brightness float64 `json:"brightness"`
}

type thermostatRequest struct {
	Mode        string   `json:"mode"`
	Temperature *float64 `json:"temperature"`
}

type cameraRequest struct {
	Action string `json:"action"`
}

// handleDevices returns the state of every device.
func (s *Server) handleDevices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Devices())
}

// handleLight switches the light on or off.
func (s *Server) handleLight(w http.ResponseWriter, r *http.Request) {
	var req lightRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	state := s.store.Light(req.Action, req.Brightness)
	s.logger.Info("Light updated",
		zap.String("action", req.Action),
		zap.String("status", state.Status),
		zap.Float64("brightness", state.Brightness))
	writeJSON(w, http.StatusOK, state)
}

// handleThermostat changes the thermostat mode and target temperature.
func (s *Server) handleThermostat(w http.ResponseWriter, r *http.Request) {
	var req thermostatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	state := s.store.Thermostat(req.Mode, req.Temperature)
	s.logger.Info("Thermostat updated",
		zap.String("mode", state.Mode),
		zap.Float64("temperature", state.Temperature))
	writeJSON(w, http.StatusOK, state)
}

// handleCamera switches the security camera on or off.
func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request) {
	var req cameraRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	state, err := s.store.Camera(req.Action)
	if err != nil {
		if errors.Is(err, device.ErrInvalidAction) {
			s.logger.Warn("Rejected camera action", zap.String("action", req.Action))
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("Camera updated", zap.String("status", state.Status))
	writeJSON(w, http.StatusOK, state)
}

// handleReport returns device states with simulated environment readings.
func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Report(s.now()))
}
