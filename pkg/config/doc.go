/*
Package config loads mover settings from JSON, YAML or HCL files.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   JSON   | |   YAML   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Picks a parser by file extension
- Decodes on top of Default so omitted keys keep their defaults
- Rejects unknown keys in every format

🔍 Example (HCL, environment variables are available as env.NAME):

	scripts    = ["${env.HOME}/moves/*.sh"]
	log_file   = "Mover_error.log"
	path_style = "windows"
	overwrite  = false
*/
package config
