// Package alert plays the staff alert: an audio cue and a vibration pattern.
//
// At most one alert sound plays at a time. A new alert while the sound is
// still running is dropped; acknowledging an item stops both parts at once.
// Audio and haptics are reached through the Player and Vibrator interfaces so
// the daemon can drive a speaker command, a terminal bell or a buzzer script.
package alert
