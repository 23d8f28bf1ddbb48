// Package notify records household notifications and fans device state out
// over MQTT.
//
// A Notifier writes every notification to a Repository (SQLite in
// production, memory in tests and when the database is disabled) and then
// publishes it as JSON on the alert topic. Publishing is best effort: a
// broker outage is logged and never fails Send.
//
// PublishState mirrors a device's full state as a retained message on its
// state topic, so a dashboard subscribing later sees the current value.
package notify
