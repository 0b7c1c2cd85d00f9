// Package api exposes the IoT device store over HTTP using a chi router.
//
// Routes:
//
//	GET  /api/devices     current state of every device
//	POST /api/light       {"action": "on"|"off", "brightness": n}
//	POST /api/thermostat  {"mode": "auto"|"manual", "temperature": t}
//	POST /api/camera      {"action": "on"|"off"}
//	GET  /api/report      device state plus simulated environment readings
//	GET  /health          liveness probe
//	GET  /metrics         Prometheus exposition
package api
