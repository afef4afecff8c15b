package catalog

import "math/rand"

type EmissionFact struct {
	Action string `json:"action"`
	Stats  string `json:"stats"`
}

var emissionFacts = []EmissionFact{
	{Action: "Charging Less Often", Stats: "Equivalent to charging 1,293 smartphones"},
	{Action: "Lessening Time Spent on Device Per Week", Stats: "Equivalent to driving 27 miles"},
	{Action: "Using Power Saving Mode", Stats: "Equivalent to consuming 9.8 gallons of diesel"},
	{Action: "Keeping Screen Brightness Below 70%", Stats: "Equivalent to consuming 1.1 gallons of gasoline"},
	{Action: "Deleting Unused Apps", Stats: "Equivalent to driving 25.6 miles"},
	{Action: "Updating Your Device", Stats: "Equivalent to burning 22 pounds of coal"},
	{Action: "Cleaning Out Emails from Trash", Stats: "Equivalent to consuming 0.012 barrels of oil"},
	{Action: "Unsubscribing from Unwanted Emails", Stats: "Equivalent to charging 330 smartphones"},
	{Action: "Reusing Your Searches on Search Engines", Stats: "Equivalent to driving 2.6 miles"},
	{Action: "Closing Unnecessary Background Apps", Stats: "Equivalent to burning 11 pounds of coal"},
}

var tips = []string{
	"Ask suppliers to email you a receipt instead of printing it out",
	"Use natural light during the day instead of overhead lighting or lamps",
	"Organize carpool to work/events",
	"Follow scheduled maintenance for vehicles",
	"Switch to LED lighting",
	"Unplug large electronics when not in use",
	"Turn off your car when parked or in a gridlocked traffic jam",
	"Change the air filter in your air conditioning unit",
	"Keep the coils in the back of your refrigerator clean",
	"Consider travel alternatives to flying",
}

// RandomFacts returns n distinct emissions facts in random order.
func RandomFacts(n int) []EmissionFact {
	if n > len(emissionFacts) {
		n = len(emissionFacts)
	}
	perm := rand.Perm(len(emissionFacts))
	out := make([]EmissionFact, 0, n)
	for _, i := range perm[:n] {
		out = append(out, emissionFacts[i])
	}
	return out
}

// RandomTips returns n distinct sustainability tips in random order.
func RandomTips(n int) []string {
	if n > len(tips) {
		n = len(tips)
	}
	perm := rand.Perm(len(tips))
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, tips[i])
	}
	return out
}
