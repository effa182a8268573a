package pii

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectEmail(t *testing.T) {
	assert := assert.New(t)
	d := &Detector{}

	for _, text := range []string{
		"reach out to john@example.com",
		"john (at) example (dot) com",
		"john at example dot com",
		"j o h n @ example . com",
	} {
		res := d.Detect(text)
		assert.True(res.Blocked, "text: %q", text)
		assert.Contains(res.Categories, CategoryEmail, "text: %q", text)
	}

	// "at"/"dot" word forms alone never produce an email
	assert.False(d.Detect("meet me at the park near the dot on the map").Blocked)
}

func TestDetectPhoneContextGating(t *testing.T) {
	assert := assert.New(t)
	d := &Detector{}

	res := d.Detect("call me at 512 555 1212")
	assert.True(res.Blocked)
	assert.Contains(res.Categories, CategoryPhone)

	res = d.Detect("text 5125551212")
	assert.Contains(res.Categories, CategoryPhone)

	res = d.Detect("whatsapp (512) 555-1212")
	assert.Contains(res.Categories, CategoryPhone)

	// digit runs without a contact trigger are never phone candidates
	assert.False(d.Detect("Traffic on 183 is terrible").Blocked)
	assert.False(d.Detect("183 N hwy closed until 2030").Blocked)
	assert.False(d.Detect("lost near mile marker 5125551212").Blocked)
}

func TestDetectSSN(t *testing.T) {
	assert := assert.New(t)
	d := &Detector{}

	res := d.Detect("my ssn is 123 45 6789")
	assert.True(res.Blocked)
	assert.Contains(res.Categories, CategorySSN)

	// nine digits without SSN context is not an SSN
	res = d.Detect("call me 123456789")
	assert.NotContains(res.Categories, CategorySSN)
}

func TestDetectCreditCard(t *testing.T) {
	assert := assert.New(t)
	d := &Detector{}

	res := d.Detect("my card is 4111 1111 1111 1111")
	assert.True(res.Blocked)
	assert.Contains(res.Categories, CategoryCreditCard)

	// invalid Luhn: same shape, no flag
	res = d.Detect("my card is 4111 1111 1111 1112")
	assert.NotContains(res.Categories, CategoryCreditCard)

	// degenerate all-identical sequence rejected even if Luhn-valid
	res = d.Detect("0000 0000 0000 0000")
	assert.NotContains(res.Categories, CategoryCreditCard)
}

func TestDetectAddress(t *testing.T) {
	assert := assert.New(t)
	d := &Detector{}

	res := d.Detect("my address is 183 N Lamar Blvd")
	assert.True(res.Blocked)
	assert.Contains(res.Categories, CategoryAddress)

	res = d.Detect("i live at the oaks, apt 12b")
	assert.Contains(res.Categories, CategoryAddress)

	// address-shaped text without a self-location phrase stays clean
	assert.False(d.Detect("accident at 183 N Lamar Blvd, avoid the area").Blocked)
	assert.False(d.Detect("new taco truck on S 1st street").Blocked)
}

func TestDetectSelfIdentification(t *testing.T) {
	assert := assert.New(t)

	d := &Detector{}
	res := d.Detect("my name is priya and I just moved here")
	assert.True(res.Blocked)
	assert.Contains(res.Categories, CategoryName)

	assert.Contains(d.Detect("I am John Smith").Categories, CategoryName)

	permissive := &Detector{AllowNames: true}
	assert.False(permissive.Detect("my name is priya").Blocked)
}

func TestDetectSocialHandles(t *testing.T) {
	assert := assert.New(t)

	d := &Detector{}
	res := d.Detect("follow me @coolperson99")
	assert.True(res.Blocked)
	assert.Contains(res.Categories, CategoryHandle)

	assert.Contains(d.Detect("snap: coolperson99").Categories, CategoryHandle)
	assert.Contains(d.Detect("dm me for details").Categories, CategoryContact)
	assert.Contains(d.Detect("hit me up after the game").Categories, CategoryContact)

	permissive := &Detector{AllowSocialHandles: true}
	assert.False(permissive.Detect("follow me @coolperson99").Blocked)
	assert.False(permissive.Detect("dm me for details").Blocked)
}

func TestDetectSpamShapes(t *testing.T) {
	assert := assert.New(t)
	d := &Detector{}

	for _, text := range []string{
		"!!!???!!!",
		"\U0001F602\U0001F602\U0001F602",
		"aaaaaaaa",
		"$5999",
	} {
		res := d.Detect(text)
		assert.Contains(res.Categories, CategorySpam, "text: %q", text)
	}

	assert.False(d.Detect("ok").Blocked)
	assert.False(d.Detect("grass looking great this year").Blocked)
}

func TestDetectSpamWordlist(t *testing.T) {
	assert := assert.New(t)
	d := &Detector{}

	assert.Contains(d.Detect("eres una puta").Categories, CategorySpam)
	assert.Contains(d.Detect("kya chutiya hai").Categories, CategorySpam)
	assert.False(d.Detect("computadora nueva").Blocked)
}

func TestDetectMultiLabel(t *testing.T) {
	assert := assert.New(t)
	d := &Detector{}

	res := d.Detect("call me at 512 555 1212 or john@example.com")
	assert.True(res.Blocked)
	assert.Contains(res.Categories, CategoryPhone)
	assert.Contains(res.Categories, CategoryEmail)
}
