// Package main runs an emulated smart bulb and cloud directory for local
// development and tests of the tapo CLI.
//
// HTTP API (device, default 127.0.0.1:8080)
//
//	POST /app
//	    {"method":"handshake"} seals a fresh session key to the caller's
//	    RSA public key and sets TP_SESSIONID. {"method":"securePassthrough"}
//	    carries encrypted login_device, set_device_info and get_device_info
//	    requests.
//
//	GET /metrics
//	    Prometheus counters for requests, rejections and handshakes.
//
// HTTP API (cloud, default 127.0.0.1:8081)
//
//	POST /
//	    {"method":"login"} and {"method":"getDeviceList"} with ?token=.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - The account credentials come from the emulator section of the config
//     file; the cloud lists the one emulated device under the configured MAC.
//   - Point cloud.base_url at the cloud listener and map the MAC to the device
//     listener in hosts to drive the emulator with the CLI.
package main
