// Package mqtt provides MQTT client connectivity for Hearth.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - A retained online/offline status with Last Will and Testament
//
// Hearth only publishes. Notifications go to <prefix>/alert and device
// state is mirrored, retained, on <prefix>/state/<deviceID>, so any
// dashboard or home-automation bridge can follow the home without talking
// to the console.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Publish(client.Topics().Alert(), payload, 1, false)
package mqtt
