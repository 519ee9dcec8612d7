// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package recognition turns a captured ballot frame into an ExtractedRecord using
a remote vision model.

# Protocol

Recognize issues one POST to an OpenAI-compatible chat completion endpoint:

	{"model": "gpt-4o", "messages": [{"role": "user", "content": [
	    {"type": "text", "text": ExtractionPrompt},
	    {"type": "image_url", "image_url": {"url": "data:image/jpeg;base64,..."}}
	]}]}

and reads choices[0].message.content from the reply. ExtractionPrompt is
versioned by PromptVersion.

# Repair

Models do not always answer with bare JSON. Parse strips a surrounding code
fence, tries the text as JSON, then tries the greedy {...} span. Anything else
is a malformed response.

# Sanitization

Sanitize always runs after a successful parse so every category value is a
field-group of exactly id_letter, vote_id and reg_id:

	{"ITEM": 42}  →  {"ITEM": {"id_letter": "", "vote_id": "42", "reg_id": ""}}

# Errors

Every failure is a *Error whose Kind is one of KindMissingCredential,
KindTransport, KindHTTP or KindMalformed. errors.Is works against
ErrMissingCredential, ErrTransport, ErrHTTP and ErrMalformedResponse.
*/
package recognition
