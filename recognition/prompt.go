// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recognition

// PromptVersion identifies ExtractionPrompt. Bump it whenever the prompt text
// changes: the prompt is the extraction contract with the model.
const PromptVersion = "2025-03-v1"

// ExtractionPrompt is sent with every frame
const ExtractionPrompt = `You are reading a photographed paper ballot.
For every ballot category on the page, extract the candidate identification letter, the vote ID and the registration ID.
Return ONLY a JSON object that maps each category name to an object of the form {"id_letter": "...", "vote_id": "...", "reg_id": "..."}.
Use an empty string for any value you cannot read. Do not add any commentary, explanation or markdown.`
