package deck

// Prompt templates for the two generation calls. The outline prompt pins
// the exact Markdown label format the parser expects; the fusion prompt
// pins the pure-HTML output contract the document recovery step expects.

const outlinePromptTemplate = `Role:
You are a top-tier academic presentation designer and content strategist with a strong "graphic-less design" mindset. You excel at turning dense academic papers into structured, visual slide decks, and at using CSS, layout, and text symbols to create clear visuals without relying on external images or complex SVG.

Core Task:
Analyze the academic document below and produce a structured, slide-by-slide presentation outline that maps directly onto a preset HTML template. Decide how many slides the content warrants (usually 10-15) and design the content and a code-friendly visual element for each one.

Guiding Principles:
- One idea per slide: each slide carries a single core point.
- Distill: turn long sentences into concise bullets, phrases, or keywords.
- Logical flow: follow the standard academic arc (introduction -> methods -> results -> conclusion).
- Extract the key material: pull key terms, numbers, results, and quotations directly from the source text.
- CSS first, image-free: this is the most important principle. Prefer visuals achievable with pure CSS, emoji, or basic HTML structure. Never suggest external image links.

Required Output Format:
You must generate every slide in exactly the following Markdown format, separating slides with a line containing only ---.

---
**Slide:** [slide number, starting from 1]
**Title:** [slide title]
**Purpose:** [one of: Title, Overview, Background, Methodology, Data, Results, Analysis, Discussion, Conclusion, Future_Work, Acknowledgements]
**Content:**
- [point 1: a short, crisp phrase]
- [point 2: **bold** key terms]
- [point 3: a direct quotation of one core sentence]
**Visual:**
  - **Type:** [one of: ` + "`Symbol`, `Process`, `Chart`, `Table`, `Quote`, `Comparison`, `List`, `Text_Only`" + `]
  - **Data:** [structured data matching the chosen Type, formats below]
---

Visual.Data formats:
Type: Symbol
Data:
symbol: [a single Unicode emoji]
text: [a short caption next to the symbol]
color_hint: [a CSS color hint]

Type: Process
Data:
steps: [a JSON array of step strings]
style: [numbered-list or chevron-arrow]

Type: Chart
Data:
chart_type: [bar, line, pie]
title: [chart title]
data_summary: [a prose description of the core numbers]

Type: Table
Data:
caption: [table caption]
headers: [a JSON array of column names]
rows: [a JSON array of row arrays]

Type: Quote
Data:
text: [the quoted text]
source: [attribution]

Type: Comparison
Data:
item1_title: [title of item 1]
item1_points: [a JSON array]
item2_title: [title of item 2]
item2_points: [a JSON array]

Type: List or Type: Text_Only
Data: null

Instruction:
Now analyze the academic document below. Follow every rule above, especially the graphic-less design principle, and produce a complete, logically ordered presentation outline that leans on simple symbols and CSS for its visuals. Begin.`

const fusionPromptTemplate = `Role:
You are a front-end expert in HTML, CSS, and JavaScript with pixel-level code fidelity. Your job is to merge a structured Markdown outline into a predefined HTML template, losslessly and precisely, producing a final, directly runnable, professional HTML file. You are meticulous about image resources and data-visualization placeholders.

Core Task:
You receive two inputs:
1. **PPT Outline:** a structured Markdown outline generated earlier.
2. **HTML Template:** a complete HTML file containing all required styles, scripts, and critical assets (such as a Base64-encoded logo).

Your task:
1. **Parse the outline:** read every field of every slide (Slide, Title, Purpose, Content, Visual).
2. **Generate the slides:** emit one HTML <section> element per slide with the correct CSS classes applied.
3. **Render visuals intelligently:**
   - **Chart (Visual.Type: Chart):** never show the word "placeholder". Typeset the outline's Visual.Data.data_summary text inside the chart area so the speaker has real numbers to talk to.
   - **Symbol (Visual.Type: Symbol):** insert the emoji from Visual.Data.symbol as text, optionally using Visual.Data.color_hint as an inline color.
   - **Other types:** generate sensible HTML structure from Visual.Type and Visual.Data.
4. **[Highest priority] Protect critical assets:** preserve, byte for byte, everything in the template's:
   - entire <head> tag with every <link> and <style>
   - every <script> tag and all JavaScript inside it
   - all navigation controls, page indicators, and other non-slide content
   - especially every <img> tag and its src attribute, including long data:image/svg+xml;base64,... strings. Never modify, shorten, or drop these.
5. **Seamless integration:** keep the generated slide count consistent with the thumbnail navigation and speaker-note entries.
6. **Clean code:** the generated HTML must be well indented and readable.

[Output requirements - absolute]:
- The final output must NOT contain any explanatory text or Markdown code-fence markers.
- Do not use ` + "```html or ```" + ` fences.
- Do not add any commentary before or after the HTML.
- The output must be pure HTML text that starts with <!DOCTYPE html> and ends with </html>.

Instruction:
Below are the PPT Outline and the HTML Template. Follow every rule above, in particular protecting the embedded assets and rendering chart summaries instead of placeholders, and output the final complete HTML file with no explanation or commentary.`

// buildOutlinePrompt appends the extracted paper text to the outline
// template the way the upstream calls expect it framed.
func buildOutlinePrompt(paperText string) string {
	return outlinePromptTemplate + "\n\n--- Full Academic Document ---\n" + paperText
}

// buildFusionPrompt frames the recovered outline and the template for the
// HTML generation call.
func buildFusionPrompt(outlineText, templateHTML string) string {
	return fusionPromptTemplate + "\n\n--- PPT Outline ---\n" + outlineText + "\n\n--- HTML Template ---\n" + templateHTML
}
