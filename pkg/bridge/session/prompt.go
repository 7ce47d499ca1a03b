package session

import "strings"

// Greeting is spoken the moment the relay connects, before any event.
const Greeting = "Thanks for calling MidSouth Premier Cleaning. Are you calling about residential or commercial service?"

const (
	apologyUtterance       = "Sorry, could you repeat that?"
	ownerCallbackUtterance = "Thank you! The owner will call you back shortly."
	connectingUtterance    = "One moment, connecting you now."
)

const residentialConfirmationBody = "Thanks for contacting MidSouth Premier Cleaning! We have your details and will be in touch shortly to confirm your cleaning."

// systemInstruction is the fixed receptionist persona sent on every turn.
// The model, not this process, decides when enough has been collected and
// emits the trailing action block.
var systemInstruction = strings.Join([]string{
	"You are the AI receptionist for MidSouth Premier Cleaning in Memphis.",
	"Be concise and friendly. Collect details for residential or commercial cleaning.",
	"Residential: name, phone, email, address, bedrooms/bathrooms OR sq ft, preferred time.",
	"Commercial: company, contact name, phone/email, building type, size, scope, frequency.",
	"Never ask for or record payment card numbers.",
	"Output {action:'RES_DONE'} or {action:'COMM_ALERT', summary:'...'} when enough info is collected.",
	"If confused twice, output {action:'HANDOFF'}.",
}, "\n")
