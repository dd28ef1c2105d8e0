package devmode

import (
	"fmt"
)

const avatarBase = "https://api.adorable.io/avatars/"

type seedUser struct {
	email, username, name, password string
}

var seedUsers = []seedUser{
	{DevEmail, DevUsername, "Dev Cofi", DevPassword},
	{"ana@cofi.local", "ana", "Ana Mejia", "cofi-ana"},
	{"luis@cofi.local", "luis", "Luis Zelaya", "cofi-luis"},
	{"maria@cofi.local", "maria", "Maria Paz", "cofi-maria"},
}

var seedCoffees = []coffee{
	{
		Brand:     brand{Name: "Cafe 504"},
		Variety:   variety{Description: "Catuai rojo, lavado"},
		Image:     image{URL: "http://cafe504.com/wp-content/uploads/2017/06/bolsa-504.png"},
		Altitude:  1450,
		AvgRating: 4.5,
		Roast:     "Medio",
	},
	{
		Brand:     brand{Name: "Marcala Reserva"},
		Variety:   variety{Description: "Pacas, honey"},
		Image:     image{URL: "http://cafe504.com/wp-content/uploads/2017/06/marcala.png"},
		Altitude:  1600,
		AvgRating: 4.8,
		Roast:     "Claro",
	},
	{
		Brand:     brand{Name: "Copan Highlands"},
		Variety:   variety{Description: "Bourbon, natural"},
		Image:     image{URL: "http://cafe504.com/wp-content/uploads/2017/06/copan.png"},
		Altitude:  1300,
		AvgRating: 4.1,
		Roast:     "Oscuro",
	},
}

// seed builds the fixture world: the dev user is friends with ana and luis,
// maria has a pending request to dev, and ana left a voice note on dev's
// alarm.
func seed() (*store, error) {
	s := newStore()
	ids := map[string]string{}
	for _, su := range seedUsers {
		hash, err := hashPassword(su.password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", su.username, err)
		}
		u, err := s.createUser(su.email, su.username, su.name, hash)
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", su.username, err)
		}
		ids[su.username] = u.ID
	}
	for username, id := range ids {
		avatar := avatarBase + "285/" + username + ".png"
		if _, err := s.updateUser(id, profilePatch{Avatar: &avatar}); err != nil {
			return nil, err
		}
	}

	dev, ana, luis, maria := ids["dev"], ids["ana"], ids["luis"], ids["maria"]
	for _, other := range []string{ana, luis} {
		link(s.friends, dev, other, true)
		link(s.friends, other, dev, true)
	}
	if _, err := s.addFriend(maria, dev); err != nil {
		return nil, err
	}

	devAlarm := s.createAlarm(alarm{UserID: dev, Time: "06:30", Label: "Primer cafe", Days: []int{1, 2, 3, 4, 5}})
	s.createAlarm(alarm{UserID: dev, Time: "09:00", Label: "Fin de semana", Days: []int{0, 6}})
	s.createAlarm(alarm{UserID: ana, Time: "05:45", Label: "Gym"})
	s.createAlarm(alarm{UserID: luis, Time: "07:15"})

	if _, err := s.addVoiceNote(ana, devAlarm.ID, "https://files.cofi.local/voicenotes/buenos-dias.aac"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.notifyLocked(dev, "friend-request", "maria wants to be your friend")
	for i := range seedCoffees {
		c := seedCoffees[i]
		c.ID = fmt.Sprintf("coffee-%d", i+1)
		s.coffees = append(s.coffees, c)
	}
	s.mu.Unlock()

	return s, nil
}
